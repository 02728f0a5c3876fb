package enhance

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"seedream-studio-server/modules/common/cancel"
)

type Handler struct {
	service  *Service
	registry *cancel.Registry
}

func NewHandler(registry *cancel.Registry) *Handler {
	service := NewService()
	if service == nil {
		log.Println("⚠️ [Enhance] Service initialization failed - check CHATGPT_BASE / CHATGPT_API_KEY")
	}
	return &Handler{
		service:  service,
		registry: registry,
	}
}

// HandleEnhance - POST /api/enhance
// {prompt, mode: t2i|i2i, maxTokens?} → {enhanced, rationale?}
// 같은 클라이언트의 새 요청이 오면 진행 중이던 보강은 조용히 버린다.
func (h *Handler) HandleEnhance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.service == nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "ChatGPT API is not configured."},
		})
		return
	}

	var req EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request format"})
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Prompt is required."})
		return
	}
	if req.Mode != "t2i" && req.Mode != "i2i" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "mode must be t2i or i2i"})
		return
	}

	ctx, finish := h.registry.Begin(r.Context(), cancel.ClientKey("enhance", r))
	defer finish()

	response, err := h.service.Enhance(ctx, &req)
	if err != nil {
		if cancel.IsSuperseded(ctx) || ctx.Err() != nil {
			// 대체되었거나 클라이언트가 끊은 요청 - 조용히 종료
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error":  "Prompt enhancement failed.",
			"detail": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(response)
}
