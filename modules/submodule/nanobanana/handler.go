package nanobanana

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

type Handler struct {
	service *Service
}

func NewHandler() *Handler {
	service := NewService()
	if service == nil {
		log.Println("⚠️ [Nanobanana] Service initialization failed - check NANO_API_KEY")
	}
	return &Handler{
		service: service,
	}
}

// HandleGenerate - POST /api/nano/generate
// {prompt, image?: string | string[]} → Seedream 형식 응답
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.service == nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "The app is not configured correctly. NANO_API_KEY is missing."},
		})
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Nanobanana] Invalid request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request format"})
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Prompt is required."})
		return
	}

	response, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		if r.Context().Err() != nil {
			// 클라이언트가 끊은 요청 - 조용히 종료
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error":  "Image generation failed.",
			"detail": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(response)
}

// GetService - 외부에서 Service 접근용
func (h *Handler) GetService() *Service {
	return h.service
}
