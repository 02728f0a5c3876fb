package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		// 프로덕션에서는 특정 도메인만 허용하도록 수정
		return true
	},
}

// Event - 구독자에게 전달되는 알림 프레임
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub - 연결된 클라이언트 집합과 브로드캐스트 관리
// 버퍼가 가득 찬 느린 클라이언트는 끊는다.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
	}
}

// HandleWS - GET /ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.add(c)

	go c.writePump()
	go h.readPump(c)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("👤 [Events] Client connected (total: %d)", count)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, exists := h.clients[c]; exists {
		close(c.send)
		delete(h.clients, c)
	}
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("👋 [Events] Client disconnected (remaining: %d)", count)
}

// Broadcast - 모든 클라이언트에게 이벤트 전송
// send 버퍼가 가득 찬 클라이언트는 제거한다.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	messageBytes, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- messageBytes:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
}

// ClientCount - 현재 연결 수 (헬스 체크용)
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump - 수신 메시지는 버리고 연결 종료만 감지
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
