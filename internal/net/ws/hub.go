package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ivlev/roundreplay/internal/narration"
	"github.com/ivlev/roundreplay/internal/playback"
	"github.com/ivlev/roundreplay/internal/surface"
)

const writeWait = 10 * time.Second

// CursorSource reports the playback position sent along with each state
type CursorSource interface {
	Cursor() playback.Cursor
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is the surface remote viewers watch. Every write lands in a
// surface.Store and wakes the broadcast loop; writes never block on the
// network, and bursts of writes are coalesced into one state message.
type Hub struct {
	store  *surface.Store
	cursor CursorSource
	logger *log.Logger

	mu          sync.Mutex
	subscribers map[string]*subscriber

	notify chan struct{}
}

// HubConfig configures a Hub
type HubConfig struct {
	Cursor CursorSource
	Logger *log.Logger
}

// NewHub creates a hub with an empty surface
func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		store:       surface.NewStore(),
		cursor:      cfg.Cursor,
		logger:      logger,
		subscribers: make(map[string]*subscriber),
		notify:      make(chan struct{}, 1),
	}
}

// SetCursor sets the cursor source once the player exists
func (h *Hub) SetCursor(c CursorSource) {
	h.mu.Lock()
	h.cursor = c
	h.mu.Unlock()
}

func (h *Hub) PanTo(x, y, zoom float64) {
	h.store.PanTo(x, y, zoom)
	h.Notify()
}

func (h *Hub) ResetCamera() {
	h.store.ResetCamera()
	h.Notify()
}

func (h *Hub) SetHighlightedPlayers(ids []string) {
	h.store.SetHighlightedPlayers(ids)
	h.Notify()
}

func (h *Hub) SetFocusLabel(text string) {
	h.store.SetFocusLabel(text)
	h.Notify()
}

func (h *Hub) SetIsAnimating(flag bool) {
	h.store.SetIsAnimating(flag)
	h.Notify()
}

func (h *Hub) SetPositions(players []narration.PlayerPosition) {
	h.store.SetPositions(players)
	h.Notify()
}

// Notify schedules a broadcast without waiting for it
func (h *Hub) Notify() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Snapshot returns the current surface state
func (h *Hub) Snapshot() surface.State {
	return h.store.Snapshot()
}

// Clients is the number of connected viewers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Subscribe registers conn and returns its id
func (h *Hub) Subscribe(conn *websocket.Conn) (string, *subscriber) {
	id := uuid.NewString()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	return id, sub
}

// Disconnect drops a subscriber and closes its connection
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

// Run broadcasts state until ctx is done, then closes every connection
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case <-h.notify:
			h.broadcast()
		}
	}
}

func (h *Hub) broadcast() {
	data, err := h.marshalState()
	if err != nil {
		h.logger.Printf("[!] Failed to marshal state message: %v", err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Printf("[!] Failed to send update to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}

func (h *Hub) marshalState() ([]byte, error) {
	h.mu.Lock()
	source := h.cursor
	h.mu.Unlock()

	msg := stateMessage{
		Type:       "state",
		State:      h.store.Snapshot(),
		ServerTime: time.Now().UnixMilli(),
	}
	if source != nil {
		c := source.Cursor()
		msg.Cursor = &cursorMessage{
			Elapsed:     c.Elapsed,
			MomentIndex: c.MomentIndex,
			Playing:     c.Playing,
			State:       c.State.String(),
		}
	}
	return json.Marshal(msg)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		sub.mu.Unlock()
		sub.conn.Close()
	}
}

type stateMessage struct {
	Type       string         `json:"type"`
	State      surface.State  `json:"state"`
	Cursor     *cursorMessage `json:"cursor,omitempty"`
	ServerTime int64          `json:"serverTime"`
}

type cursorMessage struct {
	Elapsed     float64 `json:"elapsed"`
	MomentIndex int     `json:"momentIndex"`
	Playing     bool    `json:"playing"`
	State       string  `json:"state"`
}
