package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// DefaultSendBufferSize is the outbound queue length per subscriber
	DefaultSendBufferSize = 64
)

// Client is one websocket subscriber. A Nil CompetitionID subscribes to
// status changes for every competition.
type Client struct {
	ID            string
	CompetitionID uuid.UUID
	Send          chan Message

	conn   *websocket.Conn
	hub    *Hub
	logger *logrus.Entry

	mu           sync.Mutex
	closed       bool
	connectedAt  time.Time
	messagesSent int64
}

// NewClient creates a subscriber for one competition
func NewClient(conn *websocket.Conn, hub *Hub, competitionID uuid.UUID, bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = DefaultSendBufferSize
	}
	id := uuid.New().String()
	return &Client{
		ID:            id,
		CompetitionID: competitionID,
		Send:          make(chan Message, bufferSize),
		conn:          conn,
		hub:           hub,
		logger:        hub.logger.WithField("client_id", id),
		connectedAt:   time.Now(),
	}
}

// Subscribed reports whether a message for competitionID belongs to this client
func (c *Client) Subscribed(msg Message) bool {
	if c.CompetitionID == uuid.Nil {
		return msg.Type == MessageTypeStatusChange
	}
	return c.CompetitionID == msg.CompetitionID
}

// TrySend queues a message without blocking and reports whether it fit
func (c *Client) TrySend(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// ReadPump drains the connection until it closes; subscribers only send heartbeats
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}

		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Debug("Subscriber closed unexpectedly")
			}
			return
		}

		switch msg.Type {
		case MessageTypeHeartbeat:
			c.TrySend(Message{
				Type:          MessageTypeHeartbeat,
				CompetitionID: c.CompetitionID,
				Timestamp:     time.Now().UTC(),
			})
		default:
			c.TrySend(Message{
				Type:          MessageTypeError,
				CompetitionID: c.CompetitionID,
				Payload: ErrorMessage{
					Code:    "unknown_message_type",
					Message: fmt.Sprintf("unknown message type: %s", msg.Type),
				},
				Timestamp: time.Now().UTC(),
			})
		}
	}
}

// WritePump writes queued messages and keepalive pings to the connection
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case msg, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.WithError(err).Debug("Subscriber write failed")
				return
			}
			c.mu.Lock()
			c.messagesSent++
			c.mu.Unlock()

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close ends the send queue; WritePump then closes the connection
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// MessagesSent returns how many messages reached the connection
func (c *Client) MessagesSent() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messagesSent
}
