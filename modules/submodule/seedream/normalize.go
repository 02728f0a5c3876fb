package seedream

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"seedream-studio-server/modules/common/imageutil"
)

var (
	// sizeLiteralRe - "WxH" 리터럴 (예: 1280x720)
	sizeLiteralRe = regexp.MustCompile(`^\d{2,5}x\d{2,5}$`)
	// sizePresetRe - 1K/2K/4K 프리셋 토큰
	sizePresetRe = regexp.MustCompile(`(?i)^[1-4]K$`)
)

// NormalizeSizeString - size 문자열 정규화
// 전각 "×"를 "x"로 바꾸고 리터럴은 그대로, 프리셋은 대문자로.
// 사용할 수 없는 형태면 빈 문자열을 반환한다.
func NormalizeSizeString(s string) string {
	fixed := strings.TrimSpace(strings.ReplaceAll(s, "×", "x"))
	if fixed == "" {
		return ""
	}
	if sizePresetRe.MatchString(fixed) {
		return strings.ToUpper(fixed)
	}
	if sizeLiteralRe.MatchString(fixed) {
		return fixed
	}
	return ""
}

// ToSizeString - width/height를 "WxH"로 합성 (반올림)
func ToSizeString(width, height float64) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", int(math.Floor(width+0.5)), int(math.Floor(height+0.5)))
}

// NormalizeForArk - Ark 전송 직전 바디 정규화
// size를 우선 사용하고 없으면 width/height로 합성한다.
// width/height/aspect_ratio는 클라 기록용이므로 무조건 제거한다
// (Ark는 size와 함께 오면 거부).
func NormalizeForArk(input map[string]interface{}) map[string]interface{} {
	body := make(map[string]interface{}, len(input))
	for key, value := range input {
		body[key] = value
	}

	// 1) size 우선
	size := ""
	if raw, ok := body["size"].(string); ok {
		size = NormalizeSizeString(raw)
	}

	// 2) size가 없으면 width/height로 생성
	if size == "" {
		size = ToSizeString(toFloat(body["width"]), toFloat(body["height"]))
	}

	// 3) 최종 바디: Ark에는 size만 전달 (메서드 혼용 금지)
	delete(body, "width")
	delete(body, "height")
	delete(body, "aspect_ratio")

	if size != "" {
		body["size"] = size
	} else {
		delete(body, "size")
	}

	return body
}

// BuildImageField - image/references를 단일 image 배열로 병합
// 배열로 들어온 image가 우선, 단일 image는 references 앞에 붙는다.
// data URI는 mime 구간을 소문자로 정규화하고 최대 10장으로 자른다.
func BuildImageField(image ImageInput, references []string) []string {
	if image.IsArray {
		return capImages(normalizeImages(image.Values))
	}

	single := ""
	if len(image.Values) > 0 {
		single = image.Values[0]
	}
	refs := normalizeImages(references)

	if single != "" {
		merged := append([]string{imageutil.NormalizeDataURI(single)}, refs...)
		return capImages(merged)
	}
	if len(refs) > 0 {
		return capImages(refs)
	}
	return nil
}

// BuildBody - 정규 요청을 Ark 프록시용 바디로 변환
// width+height가 둘 다 있으면 size보다 우선하며, 둘을 동시에 보내지 않는다.
// seedream-4.0은 seed/guidance_scale 미지원이라 전송을 생략한다.
func BuildBody(req *GenerateRequest) map[string]interface{} {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	responseFormat := req.ResponseFormat
	if responseFormat == "" {
		responseFormat = DefaultResponseFormat
	}
	stream := false
	if req.Stream != nil {
		stream = *req.Stream
	}
	watermark := true
	if req.Watermark != nil {
		watermark = *req.Watermark
	}
	sequential := req.SequentialImageGeneration
	if sequential == "" {
		sequential = "disabled"
	}

	body := map[string]interface{}{
		"model":                       model,
		"prompt":                      req.Prompt,
		"response_format":             responseFormat,
		"stream":                      stream,
		"watermark":                   watermark,
		"sequential_image_generation": sequential,
	}
	if req.AspectRatio != "" {
		body["aspect_ratio"] = req.AspectRatio // 기록용 - NormalizeForArk에서 제거됨
	}
	if req.Steps != nil {
		body["steps"] = *req.Steps
	}

	// width/height 또는 size 중 하나만 (동시 전송 금지)
	if req.Width > 0 && req.Height > 0 {
		body["width"] = req.Width
		body["height"] = req.Height
	} else if req.Size != "" {
		body["size"] = req.Size
	}

	if images := BuildImageField(req.Image, req.References); len(images) > 0 {
		body["image"] = images
	}

	return body
}

func normalizeImages(list []string) []string {
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if entry == "" {
			continue
		}
		out = append(out, imageutil.NormalizeDataURI(entry))
	}
	return out
}

func capImages(list []string) []string {
	if len(list) > MaxImages {
		return list[:MaxImages]
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

func toFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
