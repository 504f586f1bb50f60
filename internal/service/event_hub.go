package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"edutech_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Event types the progress engine publishes. They are advisory: every API
// response also carries the derived state directly, so a client that
// ignores the stream just re-reads after each call.
const (
	EventEnrollmentChanged  = "enrollment-changed"
	EventQuizPassed         = "quiz-passed"
	EventCourseCompleted    = "course-completed"
	EventUnlockStateChanged = "unlock-state-changed"
)

type Event struct {
	Type     string      `json:"type"`
	CourseID string      `json:"courseId,omitempty"`
	Payload  interface{} `json:"payload,omitempty"`
	At       time.Time   `json:"at"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type eventClient struct {
	hub  *EventHub
	conn *websocket.Conn
	send chan []byte
}

func (c *eventClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		// Subscribers only listen; any read error means the client left.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *eventClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// EventHub fans course events out to websocket subscribers. With Redis
// configured, events travel through a pub/sub channel so every instance
// sees them; otherwise they broadcast in-process.
type EventHub struct {
	clients    map[*eventClient]bool
	register   chan *eventClient
	unregister chan *eventClient
	broadcast  chan []byte

	rdb     *redis.Client
	channel string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewEventHub creates the hub. rdb may be nil for in-process fan-out.
func NewEventHub(rdb *redis.Client, channel string) *EventHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventHub{
		clients:    make(map[*eventClient]bool),
		register:   make(chan *eventClient),
		unregister: make(chan *eventClient),
		broadcast:  make(chan []byte, 64),
		rdb:        rdb,
		channel:    channel,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *EventHub) Run() {
	if h.rdb != nil {
		go h.subscribeRedis()
	}
	for {
		select {
		case <-h.ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

func (h *EventHub) subscribeRedis() {
	pubsub := h.rdb.Subscribe(h.ctx, h.channel)
	defer pubsub.Close()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			h.broadcast <- []byte(msg.Payload)
		}
	}
}

// Publish emits one event. Safe on a nil hub so the engine can run with
// events disabled (tests, catalog-check mode).
func (h *EventHub) Publish(evt Event) {
	if h == nil {
		return
	}
	evt.At = time.Now()
	payload, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Error("Event marshal failed", zap.Error(err))
		return
	}

	if h.rdb != nil {
		if err := h.rdb.Publish(h.ctx, h.channel, payload).Err(); err != nil {
			logger.Log.Error("Event publish failed", zap.Error(err))
		}
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logger.Log.Warn("Event dropped, broadcast buffer full", zap.String("type", evt.Type))
	}
}

// ServeWS upgrades the connection and attaches it to the hub.
func (h *EventHub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	client := &eventClient{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *EventHub) Stop() {
	h.cancel()
}
