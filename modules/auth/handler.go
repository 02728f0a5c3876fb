package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"seedream-studio-server/modules/common/config"
)

type Handler struct {
	expected string
}

func NewHandler() *Handler {
	return &Handler{
		expected: strings.TrimSpace(config.GetConfig().AppPassword),
	}
}

// HandleLogin - POST /api/login
// {password} → 200 {ok:true} / 401 / 400 (누락 또는 문자열 아님) / 500 (미설정)
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "Method Not Allowed"})
		return
	}

	if h.expected == "" {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "APP_PASSWORD not set"})
		return
	}

	var body map[string]interface{}
	json.NewDecoder(r.Body).Decode(&body)

	password, ok := body["password"].(string)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "password required"})
		return
	}

	if password != h.expected {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid password"})
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
