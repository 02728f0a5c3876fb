package nanobanana

import (
	"encoding/json"
	"fmt"
)

// ImageList - 단일 문자열 또는 배열 모두 허용하는 image 필드
type ImageList []string

func (l *ImageList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = ImageList{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = ImageList(list)
		return nil
	}
	return fmt.Errorf("image must be a string or an array of strings")
}

// GenerateRequest - 나노 제공자 요청
// width/height/size는 받더라도 조용히 무시된다 (해상도 제어 없음 - 문서화된 제한)
type GenerateRequest struct {
	Prompt string    `json:"prompt"`
	Image  ImageList `json:"image,omitempty"`
}

// GeneratedImage - data URI로 재인코딩된 생성 결과
type GeneratedImage struct {
	URL  string `json:"url"`
	Size string `json:"size"`
}

// GenerateResponse - Seedream 형식에 맞춘 응답
type GenerateResponse struct {
	Model   string           `json:"model"`
	Created int64            `json:"created"`
	Data    []GeneratedImage `json:"data"`
}
