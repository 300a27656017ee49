package monitor

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Line is one transcript entry pushed to subscribers.
type Line struct {
	ContextID string    `json:"contextId"`
	Tag       string    `json:"tag"`
	Text      string    `json:"text"`
	At        time.Time `json:"at"`
}

// Hub fans live transcript lines out to websocket subscribers, keyed
// by call context. It implements convo.Observer; a slow or broken
// subscriber is dropped rather than allowed to stall a call.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*websocket.Conn]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*websocket.Conn]struct{})}
}

// Subscribe registers a connection for one call's transcript lines.
func (h *Hub) Subscribe(contextID string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.subs[contextID] == nil {
		h.subs[contextID] = make(map[*websocket.Conn]struct{})
	}
	h.subs[contextID][conn] = struct{}{}
	h.mu.Unlock()
}

// Unsubscribe removes a connection.
func (h *Hub) Unsubscribe(contextID string, conn *websocket.Conn) {
	h.mu.Lock()
	if conns := h.subs[contextID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subs, contextID)
		}
	}
	h.mu.Unlock()
}

// Subscribers reports how many connections watch the given call.
func (h *Hub) Subscribers(contextID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[contextID])
}

// TranscriptLine pushes one line to every subscriber of the call.
func (h *Hub) TranscriptLine(contextID, tag, text string) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs[contextID]))
	for c := range h.subs[contextID] {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	if len(conns) == 0 {
		return
	}

	line := Line{ContextID: contextID, Tag: tag, Text: text, At: time.Now()}
	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.WriteJSON(line); err != nil {
			log.Printf("monitor: dropping subscriber for %s: %v", contextID, err)
			h.Unsubscribe(contextID, c)
			_ = c.Close()
		}
	}
}
