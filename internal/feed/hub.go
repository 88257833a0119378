// Package feed рассылает только что записанные события подписчикам по websocket.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/storage"
)

const (
	sendBuffer      = 16
	broadcastBuffer = 64
	writeWait       = 10 * time.Second
)

// Message - конверт, который получает подписчик.
type Message struct {
	Type  string        `json:"type"`
	Event storage.Event `json:"event"`
}

// Hub держит подключённых клиентов и рассылает им события.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcastMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	connected  atomic.Int64
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

type broadcastMessage struct {
	action storage.Action
	data   []byte
}

// NewHub создаёт Hub. Перед использованием нужно запустить Run.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan broadcastMessage, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.drop(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
			h.connected.Add(1)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.subscribedTo(message.action) {
					continue
				}
				select {
				case client.send <- message.data:
				default:
					h.logger.Warn("feed client too slow, disconnecting", zap.String("remote", client.conn.RemoteAddr().String()))
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.connected.Add(-1)
}

// Connected возвращает число подключённых клиентов.
func (h *Hub) Connected() int {
	return int(h.connected.Load())
}

// Publish ставит событие в очередь рассылки. Не блокирует: при переполнении событие
// пропускается, читатели всегда могут догнать историю через /api/events.
func (h *Hub) Publish(ev storage.Event) {
	data, err := json.Marshal(Message{Type: "event", Event: ev})
	if err != nil {
		h.logger.Error("feed message encoding failed", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- broadcastMessage{action: ev.Action, data: data}:
	default:
		h.logger.Warn("feed broadcast dropped", zap.String("request_id", ev.RequestID))
	}
}

// ServeHTTP апгрейдит соединение до websocket и подписывает клиента.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}
	h.logger.Debug("ws connected", zap.String("remote", r.RemoteAddr))

	go client.writePump()
	client.readPump()

	h.logger.Debug("ws disconnected", zap.String("remote", r.RemoteAddr))
}

// Client - одно websocket-подключение.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	actions   []storage.Action
	actionsMu sync.RWMutex
}

// subscribeMessage позволяет клиенту ограничить рассылку типами действий.
type subscribeMessage struct {
	Type    string           `json:"type"`
	Actions []storage.Action `json:"actions"`
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg subscribeMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "subscribe" {
			continue
		}
		c.setActions(msg.Actions)
	}
}

func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) setActions(actions []storage.Action) {
	c.actionsMu.Lock()
	defer c.actionsMu.Unlock()

	c.actions = c.actions[:0]
	for _, a := range actions {
		if a.IsValid() {
			c.actions = append(c.actions, a)
		}
	}
}

func (c *Client) subscribedTo(action storage.Action) bool {
	c.actionsMu.RLock()
	defer c.actionsMu.RUnlock()
	if len(c.actions) == 0 {
		return true
	}
	for _, candidate := range c.actions {
		if candidate == action {
			return true
		}
	}
	return false
}
