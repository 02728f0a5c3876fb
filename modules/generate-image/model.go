package generateimage

import (
	"seedream-studio-server/modules/submodule/seedream"
)

// ModelNanoBanana - 나노 제공자 선택 토큰
const ModelNanoBanana = "nano-banana"

// PipelineRequest - 파이프라인 생성 요청
// Mode는 "t2i" 또는 "i2i". i2i는 Image(원본)가 필수다.
type PipelineRequest struct {
	Prompt                    string   `json:"prompt"`
	PromptEnhanced            string   `json:"promptEnhanced,omitempty"`
	Mode                      string   `json:"mode"`
	Model                     string   `json:"model,omitempty"`
	Image                     string   `json:"image,omitempty"`
	References                []string `json:"references,omitempty"`
	AspectRatio               string   `json:"aspectRatio"`
	Resolution                string   `json:"resolution"`
	Seed                      *int64   `json:"seed,omitempty"`
	Steps                     *int     `json:"steps,omitempty"`
	GuidanceScale             *float64 `json:"guidanceScale,omitempty"`
	Watermark                 *bool    `json:"watermark,omitempty"`
	Stream                    *bool    `json:"stream,omitempty"`
	SequentialImageGeneration string   `json:"sequentialImageGeneration,omitempty"`
}

// PipelineResponse - 파이프라인 생성 결과
type PipelineResponse struct {
	ID      string                    `json:"id"`
	Model   string                    `json:"model"`
	Created int64                     `json:"created"`
	Data    []seedream.GeneratedImage `json:"data"`
	Width   int                       `json:"width"`
	Height  int                       `json:"height"`
}

// ValidationError - 네트워크 호출 전에 감지되는 요청 오류 (400)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
