package theme

import (
	"encoding/json"
	"log"
	"net/http"

	"seedream-studio-server/modules/common/kvstore"
)

const (
	// PersistKey - 테마 영속화 키
	PersistKey = "seedream.theme"
	// DefaultTheme - 저장된 값이 없을 때의 기본 테마
	DefaultTheme = "light"
)

type Handler struct {
	kv kvstore.Store
}

func NewHandler(kv kvstore.Store) *Handler {
	return &Handler{kv: kv}
}

// HandleGet - GET /api/theme
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	theme := DefaultTheme
	if h.kv != nil {
		if value, err := h.kv.Get(r.Context(), PersistKey); err == nil && isValidTheme(value) {
			theme = value
		}
	}

	json.NewEncoder(w).Encode(map[string]string{"theme": theme})
}

// HandleSet - PUT /api/theme
// {theme: "light"|"dark"}
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request format"})
		return
	}
	if !isValidTheme(req.Theme) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "theme must be light or dark"})
		return
	}

	if h.kv != nil {
		if err := h.kv.Set(r.Context(), PersistKey, req.Theme); err != nil {
			log.Printf("⚠️ [Theme] Failed to persist theme: %v", err)
		}
	}

	json.NewEncoder(w).Encode(map[string]string{"theme": req.Theme})
}

func isValidTheme(theme string) bool {
	return theme == "light" || theme == "dark"
}
