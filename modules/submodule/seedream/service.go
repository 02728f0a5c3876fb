package seedream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"seedream-studio-server/modules/common/config"
	"seedream-studio-server/modules/common/fetch"
)

type Service struct {
	apiURL     string
	apiKey     string
	retries    int
	httpClient *http.Client
}

func NewService() *Service {
	cfg := config.GetConfig()

	if cfg.ArkAPIKey == "" {
		log.Println("⚠️ [Seedream] ARK_API_KEY not configured")
		return nil
	}

	// "Bearer xxx" 형태로 들어온 키 정리
	apiKey := cfg.ArkAPIKey
	if len(apiKey) >= 7 && strings.EqualFold(apiKey[:7], "bearer ") {
		apiKey = strings.TrimSpace(apiKey[7:])
	}

	log.Println("✅ [Seedream] Service initialized")
	return &Service{
		apiURL:     cfg.ArkAPIURL,
		apiKey:     apiKey,
		retries:    cfg.FetchRetries,
		httpClient: &http.Client{Timeout: 180 * time.Second}, // 이미지 생성은 긴 타임아웃
	}
}

// Forward - 정규화된 바디를 Ark로 중계하고 상태/바디를 그대로 반환
// non-2xx도 에러가 아니라 상태 코드와 바디로 돌려준다 (호출자가 해석).
func (s *Service) Forward(ctx context.Context, body map[string]interface{}) (int, string, []byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return 0, "", nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := fetch.Do(ctx, s.apiURL, fetch.Options{
		Method:  http.MethodPost,
		Headers: headers,
		Body:    jsonBody,
		Retries: s.retries,
		Client:  s.httpClient,
	})
	if err != nil {
		return 0, "", nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, resp.Header.Get("Content-Type"), payload, nil
}

// Generate - 정규 요청으로 이미지 생성 (파이프라인용)
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	body := NormalizeForArk(BuildBody(req))

	log.Printf("🎨 [Seedream] Generating image - model: %v, size: %v, images: %d",
		body["model"], body["size"], len(BuildImageField(req.Image, req.References)))

	status, _, payload, err := s.Forward(ctx, body)
	if err != nil {
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		message := ExtractErrorMessage(status, payload)
		log.Printf("❌ [Seedream] Ark API error: status=%d, message=%s", status, message)
		return nil, errors.New(message)
	}

	var out GenerateResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	log.Printf("✅ [Seedream] Image generated: %d result(s)", len(out.Data))
	return &out, nil
}

// ExtractErrorMessage - 업스트림 에러 바디에서 사람이 읽을 메시지 추출
// {error: string} 또는 {error: {message}} 형태를 지원하고,
// 해석 불가능하면 "<status> <statusText>"로 대체한다.
func ExtractErrorMessage(status int, body []byte) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch errValue := parsed["error"].(type) {
		case string:
			if errValue != "" {
				return errValue
			}
		case map[string]interface{}:
			if message, ok := errValue["message"].(string); ok && message != "" {
				return message
			}
		}
		if compact, err := json.Marshal(parsed); err == nil {
			return string(compact)
		}
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
