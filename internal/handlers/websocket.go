package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mines-backend/internal/models"
	"mines-backend/internal/services"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHub fans round events out to every connected client. All sends
// to a client are made from the hub goroutine; each client has a single
// writer draining its queue.
type WebSocketHub struct {
	gameEngine *services.GameEngine
	logger     *zap.Logger

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *models.RoundEvent
	direct     chan *directMessage

	done      chan struct{}
	closeOnce sync.Once
}

type Client struct {
	ID   string
	Conn *websocket.Conn
	send chan *models.RoundEvent
}

type directMessage struct {
	client *Client
	event  *models.RoundEvent
}

// Message is an inbound client frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

func NewWebSocketHub(gameEngine *services.GameEngine, logger *zap.Logger) *WebSocketHub {
	hub := &WebSocketHub{
		gameEngine: gameEngine,
		logger:     logger,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *models.RoundEvent, 100),
		direct:     make(chan *directMessage, 100),
		done:       make(chan struct{}),
	}

	go hub.run()

	return hub
}

// Publish implements services.Broadcaster.
func (hub *WebSocketHub) Publish(event *models.RoundEvent) {
	select {
	case hub.broadcast <- event:
	case <-hub.done:
	}
}

// Close disconnects every client and stops the hub.
func (hub *WebSocketHub) Close() {
	hub.closeOnce.Do(func() { close(hub.done) })
}

func (hub *WebSocketHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.logger.Warn("failed to upgrade to websocket", zap.Error(err))
		return
	}

	client := &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		send: make(chan *models.RoundEvent, clientSendSize),
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()

	defer func() {
		select {
		case hub.unregister <- client:
		case <-hub.done:
		}
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				hub.logger.Debug("websocket read error", zap.String("client_id", client.ID), zap.Error(err))
			}
			return
		}

		hub.handleMessage(client, &msg)
	}
}

func (hub *WebSocketHub) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		hub.sendTo(client, &models.RoundEvent{
			Type:      models.EventPong,
			Data:      gin.H{"timestamp": time.Now().Unix()},
			Timestamp: time.Now().Unix(),
		})
	case "BALANCE":
		hub.sendTo(client, hub.balanceEvent())
	}
}

func (hub *WebSocketHub) sendTo(client *Client, event *models.RoundEvent) {
	select {
	case hub.direct <- &directMessage{client: client, event: event}:
	case <-hub.done:
	}
}

func (hub *WebSocketHub) balanceEvent() *models.RoundEvent {
	wallet := hub.gameEngine.Wallet()
	return &models.RoundEvent{
		Type:      models.EventBalanceUpdate,
		Data:      wallet,
		Timestamp: time.Now().Unix(),
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.ID] = client
			// Queued before any later broadcast, so it is always the first frame.
			hub.deliver(client, hub.balanceEvent())
			hub.logger.Debug("client registered", zap.String("client_id", client.ID), zap.Int("clients", len(hub.clients)))

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.ID]; ok {
				hub.drop(client)
				hub.logger.Debug("client unregistered", zap.String("client_id", client.ID))
			}

		case msg := <-hub.direct:
			if _, ok := hub.clients[msg.client.ID]; ok {
				hub.deliver(msg.client, msg.event)
			}

		case event := <-hub.broadcast:
			for _, client := range hub.clients {
				hub.deliver(client, event)
			}

		case <-hub.done:
			for _, client := range hub.clients {
				hub.drop(client)
			}
			return
		}
	}
}

// deliver queues event for client, dropping clients that cannot keep up.
func (hub *WebSocketHub) deliver(client *Client, event *models.RoundEvent) {
	select {
	case client.send <- event:
	default:
		hub.logger.Warn("dropping slow websocket client", zap.String("client_id", client.ID))
		hub.drop(client)
	}
}

func (hub *WebSocketHub) drop(client *Client) {
	delete(hub.clients, client.ID)
	close(client.send)
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for event := range c.send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteJSON(event); err != nil {
			return
		}
	}

	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
