package generateimage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"seedream-studio-server/modules/common/cancel"
	"seedream-studio-server/modules/submodule/nanobanana"
	"seedream-studio-server/modules/submodule/seedream"
)

type Handler struct {
	service         *Service
	seedreamHandler *seedream.Handler
	nanoHandler     *nanobanana.Handler
	registry        *cancel.Registry
}

func NewHandler(service *Service, seedreamHandler *seedream.Handler, nanoHandler *nanobanana.Handler, registry *cancel.Registry) *Handler {
	return &Handler{
		service:         service,
		seedreamHandler: seedreamHandler,
		nanoHandler:     nanoHandler,
		registry:        registry,
	}
}

// HandleGenerate - POST /api/generate
// 파이프라인 실행. 같은 클라이언트의 새 요청이 오면 진행 중이던 생성은 조용히 버린다.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req PipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request format"})
		return
	}

	ctx, finish := h.registry.Begin(r.Context(), cancel.ClientKey("generate", r))
	defer finish()

	response, err := h.service.Run(ctx, &req)
	if err != nil {
		if cancel.IsSuperseded(ctx) || ctx.Err() != nil {
			// 대체되었거나 클라이언트가 끊은 요청 - 조용히 종료
			return
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": verr.Message})
			return
		}

		log.Printf("❌ [Pipeline] Generation failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error":  "Image generation failed.",
			"detail": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(response)
}

// HandleProxy - POST /api/generate-image
// model 필드로 제공자를 고르는 중계 엔드포인트.
// nano-banana는 나노 핸들러로 넘기고, 나머지는 Seedream 프록시로 처리한다.
func (h *Handler) HandleProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Method Not Allowed"},
		})
		return
	}

	model := peekModel(r)
	if model == ModelNanoBanana {
		h.nanoHandler.HandleGenerate(w, r)
		return
	}
	h.seedreamHandler.HandleGenerate(w, r)
}

// peekModel - 바디를 소모하지 않고 model 필드만 미리 읽는다
func peekModel(r *http.Request) string {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var probe struct {
		Model string `json:"model"`
	}
	json.Unmarshal(body, &probe)
	return probe.Model
}
