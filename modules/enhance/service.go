package enhance

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
	"seedream-studio-server/modules/submodule/seedream"
)

// systemPrompt - Seedream 4.0 프롬프트 엔지니어 역할 지시
const systemPrompt = "당신은 BytePlus ModelArk의 Seedream 4.0 모델을 위한 시니어 프롬프트 엔지니어입니다. " +
	"장면의 주제, 스타일, 구도, 카메라/렌즈, 조명, 분위기, 품질 키워드를 포함해 모델이 선호하는 표현으로 " +
	"500자 이내의 단일 프롬프트를 작성하세요. 안전 가이드를 준수하고 민감한 내용은 배제하며, 최종 출력만 제공하세요. " +
	"기본 응답은 한국어로 작성하되 필요한 핵심 키워드는 영어를 병기할 수 있습니다."

type Service struct {
	baseURL    string
	apiKey     string
	retries    int
	httpClient *http.Client
}

func NewService() *Service {
	cfg := config.GetConfig()

	if cfg.ChatGPTBase == "" || cfg.ChatGPTAPIKey == "" {
		log.Println("⚠️ [Enhance] CHATGPT_BASE / CHATGPT_API_KEY not configured")
		return nil
	}

	log.Println("✅ [Enhance] Service initialized")
	return &Service{
		baseURL:    strings.TrimRight(cfg.ChatGPTBase, "/"),
		apiKey:     cfg.ChatGPTAPIKey,
		retries:    cfg.FetchRetries,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Enhance - 프롬프트를 chat/completions로 보강
// 응답 content가 비면 원본 프롬프트를 그대로 돌려준다.
func (s *Service) Enhance(ctx context.Context, req *EnhanceRequest) (*EnhanceResponse, error) {
	modeLabel := "text-to-image"
	if req.Mode == "i2i" {
		modeLabel = "image-to-image"
	}

	maxTokens := DefaultMaxTokens
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		maxTokens = *req.MaxTokens
	}

	body := chatBody{
		Model: DefaultModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{
				Role: "user",
				Content: fmt.Sprintf("작업 모드: %s. 원본 프롬프트:\n%s\n\n위 지침에 따라 Seedream 4.0에 최적화된 프롬프트를 만들어주세요.",
					modeLabel, req.Prompt),
			},
		},
		MaxOutputTokens: maxTokens,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", "Bearer "+s.apiKey)

	log.Printf("✨ [Enhance] Enhancing prompt - mode: %s, maxTokens: %d", modeLabel, maxTokens)

	resp, err := fetch.Do(ctx, s.baseURL+"/chat/completions", fetch.Options{
		Method:  http.MethodPost,
		Headers: headers,
		Body:    jsonBody,
		Retries: s.retries,
		Client:  s.httpClient,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := seedream.ExtractErrorMessage(resp.StatusCode, payload)
		log.Printf("❌ [Enhance] ChatGPT API error: status=%d, message=%s", resp.StatusCode, message)
		return nil, errors.New(message)
	}

	var completion chatCompletion
	if err := json.Unmarshal(payload, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	enhanced := req.Prompt
	rationale := ""
	if len(completion.Choices) > 0 {
		if content := completion.Choices[0].Message.Content; content != "" {
			enhanced = content
		}
		rationale = completion.Choices[0].Message.Refusal
	}

	log.Println("✅ [Enhance] Prompt enhanced")
	return &EnhanceResponse{
		Enhanced:  strings.TrimSpace(enhanced),
		Rationale: rationale,
	}, nil
}
