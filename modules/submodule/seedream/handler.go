package seedream

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
		log.Println("⚠️ [Seedream] Service initialization failed - check ARK_API_KEY")
	}
	return &Handler{
		service: service,
	}
}

// HandleGenerate - POST /api/seedream/generate
// 바디를 Ark 형식으로 정규화한 뒤 업스트림 상태/바디를 그대로 중계한다.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.service == nil {
		log.Println("❌ [Seedream] Service not initialized")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Service unavailable - check ARK_API_KEY"},
		})
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Printf("❌ [Seedream] Invalid request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Invalid request format"},
		})
		return
	}

	prompt, _ := body["prompt"].(string)
	if strings.TrimSpace(prompt) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Prompt is required"},
		})
		return
	}

	status, contentType, payload, err := h.service.Forward(r.Context(), NormalizeForArk(body))
	if err != nil {
		if r.Context().Err() != nil {
			// 클라이언트가 끊은 요청 - 조용히 종료
			return
		}
		log.Printf("❌ [Seedream] Proxy failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":  "Proxy failed",
			"detail": err.Error(),
		})
		return
	}

	// 업스트림 상태/바디를 그대로 전달
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	w.Write(payload)
}

// GetService - 외부에서 Service 접근용
func (h *Handler) GetService() *Service {
	return h.service
}
