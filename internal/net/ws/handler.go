package ws

import (
	"encoding/json"
	"log"
	nethttp "net/http"

	"github.com/gorilla/websocket"
)

// Controller receives playback commands from viewers
type Controller interface {
	Play()
	Pause()
	Stop()
	Toggle()
	SeekToMoment(i int)
}

type HandlerConfig struct {
	Controller Controller
	Logger     *log.Logger
}

type Handler struct {
	hub        *Hub
	controller Controller
	logger     *log.Logger
	upgrader   websocket.Upgrader
}

func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:        hub,
		controller: cfg.Controller,
		logger:     logger,
		upgrader:   upgrader,
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[!] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	id, sub := h.hub.Subscribe(conn)
	h.logger.Printf("[*] Viewer %s connected (%d watching)", id, h.hub.Clients())

	data, err := h.hub.marshalState()
	if err != nil {
		h.logger.Printf("[!] Failed to marshal initial state for %s: %v", id, err)
		h.hub.Disconnect(id)
		return
	}
	if err := sub.write(data); err != nil {
		h.hub.Disconnect(id)
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Disconnect(id)
			h.logger.Printf("[*] Viewer %s disconnected", id)
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("[!] Discarding malformed message from %s: %v", id, err)
			continue
		}

		if h.controller == nil {
			continue
		}

		switch msg.Type {
		case "play":
			h.controller.Play()
		case "pause":
			h.controller.Pause()
		case "toggle":
			h.controller.Toggle()
		case "stop":
			h.controller.Stop()
		case "seek":
			if msg.Moment == nil {
				continue
			}
			h.controller.SeekToMoment(*msg.Moment)
		default:
			h.logger.Printf("[!] Unknown message type %q from %s", msg.Type, id)
			continue
		}

		// Pause and seek change the cursor without touching the surface
		h.hub.Notify()
	}
}

type clientMessage struct {
	Type   string `json:"type"`
	Moment *int   `json:"moment,omitempty"`
}
