package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"InnKeeper/internal/mission"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans server pushes out to every connected websocket client. Slow
// clients drop messages rather than stall the tick loop.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	closed  bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends one message to every client.
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := json.Marshal(outboundMessage{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("broadcast %s: %v", msgType, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("client %s: send buffer full, dropping %s", c.id, msgType)
		}
	}
}

// Notify implements mission.Notifier.
func (h *Hub) Notify(kind mission.NotificationKind, title, message string) {
	h.Broadcast("notification", notificationDTO{Kind: kind, Title: title, Message: message})
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

// sendTo queues msg for one client if it is still connected.
func (h *Hub) sendTo(c *client, msg outboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("client %s: marshal %s: %v", c.id, msg.Type, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.id] != c {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("client %s: send buffer full, dropping %s", c.id, msg.Type)
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
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (a *App) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	a.mu.Lock()
	welcome := outboundMessage{Type: "welcome", ID: c.id, Payload: a.stateDTOLocked()}
	ok := a.hub.register(c)
	if ok {
		a.hub.sendTo(c, welcome)
	}
	a.mu.Unlock()
	if !ok {
		conn.Close()
		return
	}
	go c.writePump()
	defer a.hub.unregister(c)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %s: read: %v", c.id, err)
			}
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			a.hub.sendTo(c, errorMessage("", fmt.Errorf("%w: %v", errBadRequest, err)))
			continue
		}
		result, err := a.handleMessage(msg)
		if err != nil {
			a.hub.sendTo(c, errorMessage(msg.ID, err))
			continue
		}
		a.hub.sendTo(c, outboundMessage{Type: "result", ID: msg.ID, Payload: result})
	}
}

func errorMessage(id string, err error) outboundMessage {
	return outboundMessage{Type: "error", ID: id, Payload: apiError{Message: err.Error()}}
}

func decodePayload(msg inboundMessage, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %s needs a payload", errBadRequest, msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", errBadRequest, msg.Type, err)
	}
	return nil
}

func (a *App) handleMessage(msg inboundMessage) (any, error) {
	switch msg.Type {
	case "state":
		return a.State(), nil
	case "dispatch":
		var req dispatchRequest
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		return a.Dispatch(req)
	case "cancel":
		var req missionRequest
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		return nil, a.Cancel(req.MissionID)
	case "recall":
		var req missionRequest
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		return a.Recall(req.MissionID)
	case "history":
		return a.History(mission.DefaultHistoryLimit), nil
	case "hire":
		var req staffRequest
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		return a.Hire(req.EmployeeID)
	case "dismiss":
		var req staffRequest
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		return a.Dismiss(req.EmployeeID)
	case "upgrade":
		return a.Upgrade()
	case "save":
		var req slotRequest
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		return nil, a.SaveSlot(req.Slot)
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", errBadRequest, msg.Type)
	}
}
