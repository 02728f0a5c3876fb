package upload

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// UploadRequest - 업로드 요청
// Data는 base64 인코딩된 파일 바이너리
type UploadRequest struct {
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
}

// UploadResponse - 업로드 결과
type UploadResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

type Handler struct {
	service *Service
}

func NewHandler() *Handler {
	service := NewService()
	if service == nil {
		log.Println("⚠️ [Upload] Service initialization failed - check SUPABASE_URL / SUPABASE_SERVICE_KEY")
	}
	return &Handler{
		service: service,
	}
}

// HandleUpload - POST /api/blob/upload
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		writeErrorMessage(w, "Method Not Allowed")
		return
	}

	if h.service == nil {
		w.WriteHeader(http.StatusInternalServerError)
		writeErrorMessage(w, "Blob storage is not configured.")
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeErrorMessage(w, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Pathname) == "" || req.Data == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeErrorMessage(w, "pathname and data are required")
		return
	}
	if !IsAllowedContentType(req.ContentType) {
		w.WriteHeader(http.StatusBadRequest)
		writeErrorMessage(w, "Only JPEG, PNG and WebP uploads are allowed.")
		return
	}

	objectPath, publicURL, err := h.service.Upload(r.Context(), req.Pathname, req.ContentType, req.Data)
	if err != nil {
		log.Printf("❌ [Upload] Upload failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeErrorMessage(w, err.Error())
		return
	}

	json.NewEncoder(w).Encode(UploadResponse{
		URL:         publicURL,
		Pathname:    objectPath,
		ContentType: strings.ToLower(req.ContentType),
	})
}

func writeErrorMessage(w http.ResponseWriter, message string) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"message": message},
	})
}
