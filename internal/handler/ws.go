package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"relic-server/internal/engine"
	"relic-server/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin checks happen at the CORS layer; the socket carries no
	// credentials of its own.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one WebSocket subscriber watching a play session.
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID uuid.UUID
	send      chan service.SessionEvent
}

// DisplayUpdateFunc applies a display change reported by a client; satisfied
// by service.PlayService.UpdateDisplay.
type DisplayUpdateFunc func(sessionID uuid.UUID, o engine.Orientation, ext engine.Extents) error

// inboundMessage is what a connected client may send over the socket. Only
// display changes are meaningful; everything else is ignored.
type inboundMessage struct {
	Type        string  `json:"type"`
	Orientation string  `json:"orientation,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
}

const inboundDisplayUpdate = "update_display"

// Hub fans session events out to the WebSocket clients subscribed to each
// session. It implements service.EventPublisher.
type Hub struct {
	clients    map[uuid.UUID]map[*client]bool
	register   chan *client
	unregister chan *client
	events     chan service.SessionEvent
	onDisplay  DisplayUpdateFunc
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan service.SessionEvent, 256),
		logger:     logger.Named("WSHub"),
	}
}

// SetDisplayHandler wires the callback for client-reported display changes.
// Must be called before any connection is served; the hub and the play
// service are constructed in a cycle, so this cannot be a constructor arg.
func (h *Hub) SetDisplayHandler(fn DisplayUpdateFunc) {
	h.onDisplay = fn
}

// Run owns the client registry; call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.clients[c.sessionID] == nil {
				h.clients[c.sessionID] = make(map[*client]bool)
			}
			h.clients[c.sessionID][c] = true
			h.logger.Debug("WebSocket client registered",
				zap.String("sessionID", c.sessionID.String()))

		case c := <-h.unregister:
			if peers, ok := h.clients[c.sessionID]; ok && peers[c] {
				delete(peers, c)
				close(c.send)
				if len(peers) == 0 {
					delete(h.clients, c.sessionID)
				}
			}

		case event := <-h.events:
			for c := range h.clients[event.SessionID] {
				select {
				case c.send <- event:
				default:
					// Slow consumer, drop it rather than block the hub.
					delete(h.clients[event.SessionID], c)
					close(c.send)
				}
			}
			if event.Type == service.EventSessionEnded {
				// The session is gone; disconnect its subscribers after
				// the final event instead of pinging them forever.
				for c := range h.clients[event.SessionID] {
					close(c.send)
				}
				delete(h.clients, event.SessionID)
			}
		}
	}
}

// PublishSessionEvent queues the event for delivery. Never blocks; events are
// dropped if the hub's queue is full.
func (h *Hub) PublishSessionEvent(event service.SessionEvent) {
	select {
	case h.events <- event:
	default:
		h.logger.Warn("Event queue full, dropping session event",
			zap.String("sessionID", event.SessionID.String()),
			zap.String("type", event.Type))
	}
}

// ServeSession upgrades the request and subscribes the connection to the
// given session's events.
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan service.SessionEvent, sendBufferSize),
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump reads client messages until the connection closes. Display
// changes are applied through the hub's display handler; anything else is
// ignored.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		c.handleMessage(data)
	}
}

func (c *client) handleMessage(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.logger.Debug("Ignoring malformed client message", zap.Error(err))
		return
	}
	switch msg.Type {
	case inboundDisplayUpdate:
		if c.hub.onDisplay == nil {
			return
		}
		err := c.hub.onDisplay(c.sessionID, engine.Orientation(msg.Orientation), engine.Extents{
			Width:  msg.Width,
			Height: msg.Height,
		})
		if err != nil {
			c.hub.logger.Warn("Client display update failed",
				zap.String("sessionID", c.sessionID.String()),
				zap.Error(err))
		}
	default:
		c.hub.logger.Debug("Ignoring client message of unknown type",
			zap.String("type", msg.Type))
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
