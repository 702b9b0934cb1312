package ws_session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/humanbelnik/movienight/core/internal/model"
)

const (
	EventSessionRender = "SESSION_RENDER"
	EventError         = "ERROR"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type EventHandler interface {
	HandleEvent(ctx context.Context, id model.SessionID, ev model.Event) (model.View, error)
}

type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID model.SessionID
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID model.SessionID) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 16),
		SessionID: sessionID,
	}
}

// Hub fans every rendered view of a session out to the sockets watching it.
type Hub struct {
	mu sync.RWMutex

	sessions map[model.SessionID]map[*Client]bool

	logger *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[model.SessionID]map[*Client]bool),
		logger:   logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[client.SessionID]; !ok {
		h.sessions[client.SessionID] = make(map[*Client]bool)
	}
	h.sessions[client.SessionID][client] = true

	h.logger.Info("client registered", "session_id", client.SessionID)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.sessions[client.SessionID]; ok {
		if clients[client] {
			delete(clients, client)
			close(client.Send)
		}
		if len(clients) == 0 {
			delete(h.sessions, client.SessionID)
		}
	}
	h.logger.Info("client unregistered", "session_id", client.SessionID)
}

// Subscribers returns how many sockets watch the session.
func (h *Hub) Subscribers(id model.SessionID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[id])
}

// Render never blocks: a client whose buffer is full is dropped.
func (h *Hub) Render(_ context.Context, id model.SessionID, v model.View) error {
	message, err := json.Marshal(Event{Type: EventSessionRender, Payload: v})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[id] {
		select {
		case client.Send <- message:
		default:
			h.logger.Warn("dropping slow client", "session_id", id)
			close(client.Send)
			delete(h.sessions[id], client)
		}
	}
	return nil
}

// Send delivers an event to a single client.
func (h *Hub) Send(client *Client, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.sessions[client.SessionID][client] {
		return
	}
	select {
	case client.Send <- message:
	default:
	}
}

// StartClientReading turns every text message into a control press until the
// socket closes.
func (h *Hub) StartClientReading(client *Client, handler EventHandler) {
	defer func() {
		h.RemoveClient(client)
		client.Conn.Close()
	}()

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			break
		}

		var ev model.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			h.Send(client, Event{Type: EventError, Payload: map[string]interface{}{
				"message": "malformed event",
			}})
			continue
		}

		if _, err := handler.HandleEvent(context.Background(), client.SessionID, ev); err != nil {
			h.logger.Warn("event rejected",
				"session_id", client.SessionID,
				"control", ev.Control,
				"error", err,
			)
			h.Send(client, Event{Type: EventError, Payload: map[string]interface{}{
				"message": err.Error(),
			}})
		}
	}
}

func (h *Hub) StartClientWriting(client *Client) {
	defer client.Conn.Close()

	for message := range client.Send {
		err := client.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			break
		}
	}
}
