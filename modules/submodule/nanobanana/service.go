package nanobanana

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"seedream-studio-server/modules/common/config"
	"seedream-studio-server/modules/common/imageutil"
)

type Service struct {
	genaiClient *genai.Client
	model       string
}

func NewService() *Service {
	cfg := config.GetConfig()

	if cfg.NanoAPIKey == "" {
		log.Println("⚠️ [Nanobanana] NANO_API_KEY not configured")
		return nil
	}

	// Genai 클라이언트 초기화
	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.NanoAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("❌ [Nanobanana] Failed to create Genai client: %v", err)
		return nil
	}

	log.Println("✅ [Nanobanana] Service initialized")
	return &Service{
		genaiClient: genaiClient,
		model:       cfg.NanoModel,
	}
}

// Generate - 프롬프트 + 인라인 이미지로 생성 후 Seedream 형식으로 변환
// 이미지 파트가 하나도 없으면 차단 사유나 텍스트 설명을 에러로 올린다.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	log.Printf("🎨 [Nanobanana] Generating image - model: %s, images: %d, prompt: %s",
		s.model, len(req.Image), truncateString(req.Prompt, 50))

	// Parts 구성: [텍스트, (선택) 이미지들] - 입력 순서 유지
	parts := []*genai.Part{
		genai.NewPartFromText(req.Prompt),
	}
	for i, input := range req.Image {
		mime, payload := toInlineInput(input)
		imageData, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			log.Printf("⚠️ [Nanobanana] Failed to decode image %d: %v", i, err)
			continue
		}
		log.Printf("📷 [Nanobanana] Adding input image %d: %s, %d bytes", i+1, mime, len(imageData))
		parts = append(parts, genai.NewPartFromBytes(imageData, mime))
	}

	content := &genai.Content{
		Parts: parts,
	}

	result, err := s.genaiClient.Models.GenerateContent(ctx, s.model, []*genai.Content{content}, nil)
	if err != nil {
		log.Printf("❌ [Nanobanana] Gemini API error: %v", err)
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	// 응답에서 인라인 이미지 추출 → data URI로 재인코딩
	images := []GeneratedImage{}
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			images = append(images, GeneratedImage{
				URL:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data),
				Size: "unknown",
			})
		}
	}

	if len(images) == 0 {
		// 안전필터/정책 차단 등으로 이미지가 없을 수 있음
		detail := extractFailureDetail(result)
		log.Printf("❌ [Nanobanana] No image generated: %s", detail)
		return nil, fmt.Errorf("image generation failed: %s", detail)
	}

	log.Printf("✅ [Nanobanana] Image generated: %d result(s)", len(images))
	return &GenerateResponse{
		Model:   fmt.Sprintf("nano-banana (%s)", s.model),
		Created: time.Now().Unix(),
		Data:    images,
	}, nil
}

// toInlineInput - data URI 또는 raw base64 입력을 (mime, payload)로 변환
// 첫 콤마 기준으로 분리하고 헤더가 없거나 해석 불가면 image/png 기본 처리
func toInlineInput(input string) (string, string) {
	if mime, payload, ok := imageutil.ParseDataURI(input); ok {
		return mime, payload
	}
	if idx := strings.Index(input, ","); idx >= 0 {
		return "image/png", input[idx+1:]
	}
	return "image/png", input
}

// extractFailureDetail - 차단 사유 또는 첫 텍스트 파트를 실패 상세로 사용
func extractFailureDetail(result *genai.GenerateContentResponse) string {
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return string(result.PromptFeedback.BlockReason)
	}
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return "No inline image data was returned by the model."
}

// Helper functions
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
