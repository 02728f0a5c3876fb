package seedream

import (
	"encoding/json"
	"fmt"
)

// Seedream 4.0 기본 모델 ID (BytePlus Ark)
const DefaultModel = "seedream-4-0-250828"

// DefaultResponseFormat - 응답 형식 기본값
const DefaultResponseFormat = "url"

// MaxImages - image 필드에 전송 가능한 최대 장수
const MaxImages = 10

// ImageInput - 단일 문자열 또는 배열 모두 허용하는 image 필드
// 배열로 들어온 경우 references 병합 규칙이 달라지므로 형태를 기억한다.
type ImageInput struct {
	Values  []string
	IsArray bool
}

func (in *ImageInput) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		in.Values = []string{single}
		in.IsArray = false
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		in.Values = list
		in.IsArray = true
		return nil
	}
	return fmt.Errorf("image must be a string or an array of strings")
}

func (in ImageInput) MarshalJSON() ([]byte, error) {
	if !in.IsArray && len(in.Values) == 1 {
		return json.Marshal(in.Values[0])
	}
	return json.Marshal(in.Values)
}

// IsEmpty - 이미지 입력 없음 여부
func (in ImageInput) IsEmpty() bool {
	return len(in.Values) == 0
}

// GenerateRequest - 클라이언트 상위집합 요청 (t2i/i2i 공용)
// width/height/aspect_ratio는 클라 기록용 필드로 Ark 전송 전에 제거된다.
type GenerateRequest struct {
	Model                     string     `json:"model,omitempty"`
	Prompt                    string     `json:"prompt"`
	ResponseFormat            string     `json:"response_format,omitempty"`
	Size                      string     `json:"size,omitempty"`
	Width                     int        `json:"width,omitempty"`
	Height                    int        `json:"height,omitempty"`
	AspectRatio               string     `json:"aspect_ratio,omitempty"`
	Image                     ImageInput `json:"image,omitempty"`
	References                []string   `json:"references,omitempty"`
	Stream                    *bool      `json:"stream,omitempty"`
	Watermark                 *bool      `json:"watermark,omitempty"`
	SequentialImageGeneration string     `json:"sequential_image_generation,omitempty"` // disabled | enabled | auto
	Seed                      *int64     `json:"seed,omitempty"`
	Steps                     *int       `json:"steps,omitempty"`
	GuidanceScale             *float64   `json:"guidance_scale,omitempty"`
}

// GeneratedImage - 생성 결과 이미지 (원격 URL 또는 data URI)
type GeneratedImage struct {
	URL  string `json:"url"`
	Size string `json:"size,omitempty"`
}

// GenerateResponse - Ark 이미지 생성 응답
type GenerateResponse struct {
	Model   string           `json:"model"`
	Created int64            `json:"created"`
	Data    []GeneratedImage `json:"data"`
}
