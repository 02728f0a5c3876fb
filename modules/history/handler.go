package history

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// Broadcaster - 히스토리 변경을 구독자에게 알림 (events 허브가 구현)
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

type Handler struct {
	store  *Store
	events Broadcaster
}

func NewHandler(store *Store, events Broadcaster) *Handler {
	return &Handler{
		store:  store,
		events: events,
	}
}

// HandleList - GET /api/history
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items": h.store.Items(),
	})
}

// HandleAdd - POST /api/history
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var item HistoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request format"})
		return
	}
	if strings.TrimSpace(item.ID) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "id is required"})
		return
	}

	h.store.Add(r.Context(), item)
	h.notify("history_added", map[string]string{"id": item.ID})
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// HandleRemove - DELETE /api/history/{id}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := mux.Vars(r)["id"]
	h.store.Remove(r.Context(), id)
	h.notify("history_removed", map[string]string{"id": id})
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// HandleClear - DELETE /api/history
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.store.Clear(r.Context())
	log.Println("🗑️ [History] Cleared")
	h.notify("history_cleared", nil)
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (h *Handler) notify(eventType string, payload interface{}) {
	if h.events == nil {
		return
	}
	h.events.Broadcast(eventType, payload)
}
