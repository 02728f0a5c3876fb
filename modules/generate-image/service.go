package generateimage

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"seedream-studio-server/modules/common/imageutil"
	"seedream-studio-server/modules/common/sizing"
	"seedream-studio-server/modules/history"
	"seedream-studio-server/modules/submodule/nanobanana"
	"seedream-studio-server/modules/submodule/seedream"
)

// seedreamProvider / nanoProvider - 테스트에서 교체 가능한 제공자 표면
type seedreamProvider interface {
	Generate(ctx context.Context, req *seedream.GenerateRequest) (*seedream.GenerateResponse, error)
}

type nanoProvider interface {
	Generate(ctx context.Context, req *nanobanana.GenerateRequest) (*nanobanana.GenerateResponse, error)
}

// Broadcaster - 생성 완료 알림 (events 허브가 구현)
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// Service - 생성 파이프라인 오케스트레이터
// 검증 → 치수 계산 → 제공자 분기 → 히스토리 기록 → 이벤트 알림 순서로 처리한다.
type Service struct {
	seedream seedreamProvider
	nano     nanoProvider
	history  *history.Store
	events   Broadcaster
}

func NewService(store *history.Store, events Broadcaster) *Service {
	s := &Service{
		history: store,
		events:  events,
	}
	if svc := seedream.NewService(); svc != nil {
		s.seedream = svc
	}
	if svc := nanobanana.NewService(); svc != nil {
		s.nano = svc
	}
	return s
}

// Run - 파이프라인 실행
// 성공 시 히스토리에 기록하고 generation_completed 이벤트를 보낸다.
// 취소/대체된 요청은 기록하지 않는다.
func (s *Service) Run(ctx context.Context, req *PipelineRequest) (*PipelineResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	dims, err := sizing.ComputeDimensions(req.AspectRatio, req.Resolution)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	prompt := req.Prompt
	if req.PromptEnhanced != "" {
		prompt = req.PromptEnhanced
	}

	log.Printf("🎨 [Pipeline] Starting generation - mode: %s, model: %s, size: %dx%d",
		req.Mode, modelLabel(req.Model), dims.Width, dims.Height)

	var response *PipelineResponse
	if req.Model == ModelNanoBanana {
		response, err = s.runNano(ctx, req, prompt, dims)
	} else {
		response, err = s.runSeedream(ctx, req, prompt, dims)
	}
	if err != nil {
		return nil, err
	}

	response.ID = uuid.New().String()
	response.Width = dims.Width
	response.Height = dims.Height

	s.record(ctx, req, response, dims)
	return response, nil
}

func (s *Service) validate(req *PipelineRequest) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return &ValidationError{Message: "Prompt is required."}
	}
	if req.Mode != "t2i" && req.Mode != "i2i" {
		return &ValidationError{Message: "mode must be t2i or i2i"}
	}
	if req.Mode == "i2i" && req.Image == "" {
		return &ValidationError{Message: "Image-to-image requires a source image."}
	}

	if req.Image != "" {
		if verr := imageutil.ValidateImageDataURI(req.Image); verr != nil {
			return &ValidationError{Message: verr.Message}
		}
	}
	for _, ref := range req.References {
		if verr := imageutil.ValidateImageDataURI(ref); verr != nil {
			return &ValidationError{Message: verr.Message}
		}
	}
	return nil
}

func (s *Service) runSeedream(ctx context.Context, req *PipelineRequest, prompt string, dims sizing.Dimensions) (*PipelineResponse, error) {
	if s.seedream == nil {
		return nil, errors.New("Seedream provider is not configured - check ARK_API_KEY")
	}

	genReq := &seedream.GenerateRequest{
		Prompt:                    prompt,
		AspectRatio:               req.AspectRatio,
		Width:                     dims.Width,
		Height:                    dims.Height,
		References:                req.References,
		Stream:                    req.Stream,
		Watermark:                 req.Watermark,
		SequentialImageGeneration: req.SequentialImageGeneration,
		Seed:                      req.Seed,
		Steps:                     req.Steps,
		GuidanceScale:             req.GuidanceScale,
	}
	if req.Image != "" {
		genReq.Image = seedream.ImageInput{Values: []string{req.Image}}
	}

	out, err := s.seedream.Generate(ctx, genReq)
	if err != nil {
		return nil, err
	}
	return &PipelineResponse{
		Model:   out.Model,
		Created: out.Created,
		Data:    out.Data,
	}, nil
}

func (s *Service) runNano(ctx context.Context, req *PipelineRequest, prompt string, dims sizing.Dimensions) (*PipelineResponse, error) {
	if s.nano == nil {
		return nil, errors.New("Nano provider is not configured - check NANO_API_KEY")
	}

	// 나노는 해상도 제어가 없어 프롬프트로만 비율을 유도한다
	images := make(nanobanana.ImageList, 0, len(req.References)+1)
	if req.Image != "" {
		images = append(images, req.Image)
	}
	images = append(images, req.References...)

	out, err := s.nano.Generate(ctx, &nanobanana.GenerateRequest{
		Prompt: nanobanana.InjectAspectRatio(prompt, req.AspectRatio),
		Image:  images,
	})
	if err != nil {
		return nil, err
	}

	data := make([]seedream.GeneratedImage, len(out.Data))
	for i, img := range out.Data {
		data[i] = seedream.GeneratedImage{URL: img.URL, Size: img.Size}
	}
	return &PipelineResponse{
		Model:   out.Model,
		Created: out.Created,
		Data:    data,
	}, nil
}

// record - 성공한 생성 결과를 히스토리에 남기고 이벤트 전파
func (s *Service) record(ctx context.Context, req *PipelineRequest, response *PipelineResponse, dims sizing.Dimensions) {
	if s.history == nil {
		return
	}

	watermark := true
	if req.Watermark != nil {
		watermark = *req.Watermark
	}
	stream := false
	if req.Stream != nil {
		stream = *req.Stream
	}

	item := history.HistoryItem{
		ID:             response.ID,
		CreatedAt:      time.Now().Unix(),
		Source:         req.Mode,
		PromptRaw:      req.Prompt,
		PromptEnhanced: req.PromptEnhanced,
		Params: history.GenerationParams{
			AspectRatio:               req.AspectRatio,
			Resolution:                req.Resolution,
			Width:                     dims.Width,
			Height:                    dims.Height,
			Seed:                      req.Seed,
			Steps:                     req.Steps,
			GuidanceScale:             req.GuidanceScale,
			Watermark:                 watermark,
			Stream:                    stream,
			SequentialImageGeneration: req.SequentialImageGeneration,
		},
	}
	if len(response.Data) > 0 {
		item.URL = response.Data[0].URL
	}

	s.history.Add(ctx, item)

	if s.events != nil {
		s.events.Broadcast("generation_completed", map[string]string{"id": item.ID})
	}
}

func modelLabel(model string) string {
	if model == "" {
		return seedream.DefaultModel
	}
	return model
}
