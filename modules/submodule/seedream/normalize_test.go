package seedream

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeForArkSizeWins(t *testing.T) {
	body := NormalizeForArk(map[string]interface{}{
		"prompt": "a cat",
		"size":   "1280x720",
		"width":  999,
		"height": 999,
	})

	assert.Equal(t, "1280x720", body["size"])
	assert.NotContains(t, body, "width")
	assert.NotContains(t, body, "height")
	assert.NotContains(t, body, "aspect_ratio")
}

func TestNormalizeForArkSynthesizesSize(t *testing.T) {
	body := NormalizeForArk(map[string]interface{}{
		"prompt": "a cat",
		"width":  float64(1024),
		"height": float64(768),
	})

	assert.Equal(t, "1024x768", body["size"])
	assert.NotContains(t, body, "width")
	assert.NotContains(t, body, "height")
}

func TestNormalizeForArkStripsAspectRatio(t *testing.T) {
	body := NormalizeForArk(map[string]interface{}{
		"prompt":       "a cat",
		"aspect_ratio": "16:9",
	})

	assert.NotContains(t, body, "aspect_ratio")
	assert.NotContains(t, body, "size")
	assert.Equal(t, "a cat", body["prompt"])
}

func TestNormalizeSizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1280x720", "1280x720"},
		{"1280×720", "1280x720"}, // 전각 ×
		{" 1024x1024 ", "1024x1024"},
		{"2k", "2K"},
		{"4K", "4K"},
		{"1K", "1K"},
		{"5K", ""},
		{"abc", ""},
		{"", ""},
		{"1x1", ""},       // 자릿수 미달
		{"123456x720", ""}, // 자릿수 초과
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSizeString(tt.in), "input %q", tt.in)
	}
}

func TestToSizeString(t *testing.T) {
	assert.Equal(t, "1024x768", ToSizeString(1024, 768))
	assert.Equal(t, "1025x768", ToSizeString(1024.5, 767.9))
	assert.Equal(t, "", ToSizeString(0, 768))
}

func TestBuildImageFieldMerge(t *testing.T) {
	single := ImageInput{Values: []string{"a.png"}}
	merged := BuildImageField(single, []string{"b.png", "c.png"})
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, merged)
}

func TestBuildImageFieldCapsAtTen(t *testing.T) {
	refs := make([]string, 12)
	for i := range refs {
		refs[i] = fmt.Sprintf("ref-%d.png", i)
	}
	merged := BuildImageField(ImageInput{Values: []string{"a.png"}}, refs)
	require.Len(t, merged, 10)
	assert.Equal(t, "a.png", merged[0])
	assert.Equal(t, "ref-8.png", merged[9])
}

func TestBuildImageFieldArrayWins(t *testing.T) {
	array := ImageInput{Values: []string{"a.png", "", "b.png"}, IsArray: true}
	merged := BuildImageField(array, []string{"ignored.png"})
	assert.Equal(t, []string{"a.png", "b.png"}, merged)
}

func TestBuildImageFieldReferencesOnly(t *testing.T) {
	merged := BuildImageField(ImageInput{}, []string{"b.png", "", "c.png"})
	assert.Equal(t, []string{"b.png", "c.png"}, merged)

	assert.Nil(t, BuildImageField(ImageInput{}, nil))
}

func TestBuildImageFieldNormalizesMime(t *testing.T) {
	merged := BuildImageField(ImageInput{Values: []string{"data:IMAGE/PNG;base64,AAAA"}}, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, "data:image/png;base64,AAAA", merged[0])

	// 원격 URL은 그대로
	merged = BuildImageField(ImageInput{Values: []string{"https://example.com/A.PNG"}}, nil)
	assert.Equal(t, []string{"https://example.com/A.PNG"}, merged)
}

func TestBuildBodyDefaults(t *testing.T) {
	body := BuildBody(&GenerateRequest{Prompt: "a cat"})

	assert.Equal(t, DefaultModel, body["model"])
	assert.Equal(t, "a cat", body["prompt"])
	assert.Equal(t, "url", body["response_format"])
	assert.Equal(t, false, body["stream"])
	assert.Equal(t, true, body["watermark"])
	assert.Equal(t, "disabled", body["sequential_image_generation"])
	assert.NotContains(t, body, "seed")
	assert.NotContains(t, body, "guidance_scale")
}

func TestBuildBodyPrefersExplicitDimensions(t *testing.T) {
	body := BuildBody(&GenerateRequest{
		Prompt: "a cat",
		Size:   "2K",
		Width:  1280,
		Height: 720,
	})

	assert.Equal(t, 1280, body["width"])
	assert.Equal(t, 720, body["height"])
	assert.NotContains(t, body, "size")

	// width/height가 없으면 size 사용
	body = BuildBody(&GenerateRequest{Prompt: "a cat", Size: "2K"})
	assert.Equal(t, "2K", body["size"])
	assert.NotContains(t, body, "width")
}

func TestBuildBodyOmitsUnsupportedParams(t *testing.T) {
	seed := int64(42)
	guidance := 7.5
	steps := 30
	body := BuildBody(&GenerateRequest{
		Prompt:        "a cat",
		Seed:          &seed,
		GuidanceScale: &guidance,
		Steps:         &steps,
	})

	// seedream-4.0은 seed/guidance_scale 미지원
	assert.NotContains(t, body, "seed")
	assert.NotContains(t, body, "guidance_scale")
	assert.Equal(t, 30, body["steps"])
}

func TestImageInputUnmarshal(t *testing.T) {
	var req GenerateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"prompt":"p","image":"a.png"}`), &req))
	assert.False(t, req.Image.IsArray)
	assert.Equal(t, []string{"a.png"}, req.Image.Values)

	require.NoError(t, json.Unmarshal([]byte(`{"prompt":"p","image":["a.png","b.png"]}`), &req))
	assert.True(t, req.Image.IsArray)
	assert.Equal(t, []string{"a.png", "b.png"}, req.Image.Values)

	assert.Error(t, json.Unmarshal([]byte(`{"prompt":"p","image":42}`), &req))
}

func TestExtractErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", ExtractErrorMessage(500, []byte(`{"error":"boom"}`)))
	assert.Equal(t, "bad prompt", ExtractErrorMessage(400, []byte(`{"error":{"message":"bad prompt"}}`)))
	assert.Equal(t, "503 Service Unavailable", ExtractErrorMessage(503, []byte("upstream melted")))
	assert.Equal(t, `{"detail":"odd"}`, ExtractErrorMessage(500, []byte(`{"detail":"odd"}`)))
}
