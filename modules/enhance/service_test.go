package enhance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(baseURL string) *Service {
	return &Service{
		baseURL:    baseURL,
		apiKey:     "test-key",
		retries:    0,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestEnhanceBuildsChatRequest(t *testing.T) {
	var got chatBody
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  보강된 프롬프트  "}},
			},
		})
	}))
	defer server.Close()

	service := newTestService(server.URL)
	resp, err := service.Enhance(context.Background(), &EnhanceRequest{Prompt: "고양이", Mode: "i2i"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxOutputTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "image-to-image")
	assert.Contains(t, got.Messages[1].Content, "고양이")

	// 응답은 트림되어 돌아온다
	assert.Equal(t, "보강된 프롬프트", resp.Enhanced)
	assert.Empty(t, resp.Rationale)
}

func TestEnhanceMaxTokensOverride(t *testing.T) {
	var got chatBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	maxTokens := 800
	service := newTestService(server.URL)
	resp, err := service.Enhance(context.Background(), &EnhanceRequest{Prompt: "a cat", Mode: "t2i", MaxTokens: &maxTokens})
	require.NoError(t, err)

	assert.Equal(t, 800, got.MaxOutputTokens)
	assert.Contains(t, got.Messages[1].Content, "text-to-image")
	// choices가 없으면 원본 프롬프트를 그대로 반환
	assert.Equal(t, "a cat", resp.Enhanced)
}

func TestEnhanceUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid api key"},
		})
	}))
	defer server.Close()

	service := newTestService(server.URL)
	_, err := service.Enhance(context.Background(), &EnhanceRequest{Prompt: "a cat", Mode: "t2i"})
	require.Error(t, err)
	assert.Equal(t, "invalid api key", err.Error())
}

func TestEnhanceRefusalRationale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "enhanced", "refusal": "policy note"}},
			},
		})
	}))
	defer server.Close()

	service := newTestService(server.URL)
	resp, err := service.Enhance(context.Background(), &EnhanceRequest{Prompt: "a cat", Mode: "t2i"})
	require.NoError(t, err)
	assert.Equal(t, "enhanced", resp.Enhanced)
	assert.Equal(t, "policy note", resp.Rationale)
}
