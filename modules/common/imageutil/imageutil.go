package imageutil

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG 디코더 등록
	"image/png"
	"regexp"
	"strings"

	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

const (
	// MaxFileSize - 입력 이미지 최대 크기 (4MB)
	MaxFileSize = 4 * 1024 * 1024
	// MinRatio / MaxRatio - 입력 이미지 허용 비율 범위
	MinRatio = 1.0 / 3.0
	MaxRatio = 3.0
)

// supportedFormats - 생성 입력으로 허용하는 포맷
var supportedFormats = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// dataURIHeaderRe - data URI 헤더에서 mime 추출
var dataURIHeaderRe = regexp.MustCompile(`(?i)^data:(.*?)(;base64)?$`)

// ValidationError - 네트워크 호출 전에 감지되는 입력 이미지 오류
type ValidationError struct {
	Code    string `json:"code"` // format | size | ratio | count
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsSupportedFormat - 생성 입력 포맷 허용 여부
func IsSupportedFormat(mime string) bool {
	return supportedFormats[strings.ToLower(mime)]
}

// ParseDataURI - data URI에서 (mime, base64 payload) 추출
// 헤더가 파싱되지 않으면 mime은 image/png로 기본 처리, payload는 그대로 사용
func ParseDataURI(uri string) (mime, payload string, ok bool) {
	if !strings.HasPrefix(strings.ToLower(uri), "data:") {
		return "", "", false
	}
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return "", "", false
	}
	mime = "image/png"
	if m := dataURIHeaderRe.FindStringSubmatch(uri[:idx]); m != nil && m[1] != "" {
		mime = strings.ToLower(m[1])
	}
	return mime, uri[idx+1:], true
}

// NormalizeDataURI - data URI 헤더(mime 구간)를 소문자로 정규화
// 원격 URL은 손대지 않는다 (제공자 포맷 검사 요건 충족 보조)
func NormalizeDataURI(uri string) string {
	if !strings.HasPrefix(strings.ToLower(uri), "data:") {
		return uri
	}
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return uri
	}
	return strings.ToLower(uri[:idx]) + uri[idx:]
}

// ValidateImageDataURI - 생성 입력 이미지 사전 검증
// 원격 URL은 검증하지 않는다 (업스트림 판단). 통과 시 nil.
func ValidateImageDataURI(uri string) *ValidationError {
	mime, payload, ok := ParseDataURI(uri)
	if !ok {
		return nil
	}
	if !IsSupportedFormat(mime) {
		return &ValidationError{Code: "format", Message: "Only JPEG and PNG files are supported."}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return &ValidationError{Code: "format", Message: "Image data is not valid base64."}
	}
	if len(data) > MaxFileSize {
		return &ValidationError{Code: "size", Message: "Images must be smaller than 4MB."}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return &ValidationError{Code: "format", Message: "Could not decode image."}
	}
	ratio := float64(cfg.Width) / float64(cfg.Height)
	if ratio < MinRatio || ratio > MaxRatio {
		return &ValidationError{Code: "ratio", Message: "Image aspect ratio must stay within 1:3 and 3:1."}
	}
	return nil
}

// Thumbnail - 이미지 바이너리를 maxSide 이하로 축소해 WebP로 인코딩
func Thumbnail(data []byte, maxSide int, quality float32) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	longSide := srcWidth
	if srcHeight > longSide {
		longSide = srcHeight
	}
	scale := 1.0
	if longSide > maxSide {
		scale = float64(maxSide) / float64(longSide)
	}
	newWidth := int(float64(srcWidth) * scale)
	newHeight := int(float64(srcHeight) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	// Nearest Neighbor 방식으로 리사이즈
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			srcX := bounds.Min.X + int(float64(x)/scale)
			srcY := bounds.Min.Y + int(float64(y)/scale)
			dst.Set(x, y, img.At(srcX, srcY))
		}
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNGDataURI - PNG 바이너리를 data URI로 인코딩 (테스트/썸네일 보조)
func EncodePNGDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
