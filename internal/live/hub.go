package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/metrics"
	"github.com/yourusername/tightlines/internal/models"
)

const broadcastBufferSize = 256

// Hub maintains the set of subscribers and fans messages out to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	sendBufferSize int
	upgrader       websocket.Upgrader
	logger         *logrus.Entry
}

// NewHub creates a hub. Origins lists the browser origins allowed to
// connect; an empty list or "*" allows any origin.
func NewHub(sendBufferSize int, origins []string, logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.New()
	}
	h := &Hub{
		clients:        make(map[*Client]bool),
		broadcast:      make(chan Message, broadcastBufferSize),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		sendBufferSize: sendBufferSize,
		logger:         logger.WithField("component", "live"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

// Run processes registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Live hub started")
	defer h.stop()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues a message for fan-out, dropping it when the queue is full
func (h *Hub) Publish(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- msg:
	default:
		metrics.RecordLiveMessage(msg.Type, "queue_full")
		h.logger.WithField("type", msg.Type).Warn("Broadcast queue full, dropping message")
	}
}

// PublishLeaderboard sends a fresh leaderboard to the competition's subscribers
func (h *Hub) PublishLeaderboard(competitionID uuid.UUID, board *models.Leaderboard) {
	h.Publish(Message{
		Type:          MessageTypeLeaderboardUpdate,
		CompetitionID: competitionID,
		Payload:       board,
	})
}

// PublishStatusChange announces a lifecycle transition
func (h *Hub) PublishStatusChange(change StatusChange) {
	h.Publish(Message{
		Type:          MessageTypeStatusChange,
		CompetitionID: change.CompetitionID,
		Payload:       change,
	})
}

// ServeWS upgrades the request and subscribes the connection to
// competitionID. The initial message, when given, is delivered first.
func (h *Hub) ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request, competitionID uuid.UUID, initial *Message) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := NewClient(conn, h, competitionID, h.sendBufferSize)
	if initial != nil {
		c.TrySend(*initial)
	}
	h.Register(c)

	go c.WritePump(ctx)
	go c.ReadPump(ctx)
	return nil
}

// ClientCount returns the number of active subscribers
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.clientsMu.Unlock()

	metrics.UpdateLiveConnections(n)
	c.logger.WithFields(logrus.Fields{
		"competition_id": c.CompetitionID,
		"total":          n,
	}).Debug("Subscriber connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		c.close()
	}
	n := len(h.clients)
	h.clientsMu.Unlock()

	if ok {
		metrics.UpdateLiveConnections(n)
		c.logger.WithField("total", n).Debug("Subscriber disconnected")
	}
}

// fanOut delivers msg to every matching subscriber. Subscribers whose
// queue is full are disconnected.
func (h *Hub) fanOut(msg Message) {
	h.clientsMu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.Subscribed(msg) {
			targets = append(targets, c)
		}
	}
	h.clientsMu.RUnlock()

	for _, c := range targets {
		if c.TrySend(msg) {
			metrics.RecordLiveMessage(msg.Type, "sent")
			continue
		}
		metrics.RecordLiveMessage(msg.Type, "dropped")
		c.logger.Warn("Subscriber too slow, disconnecting")
		h.unregisterClient(c)
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	h.clientsMu.Unlock()

	metrics.UpdateLiveConnections(0)
	h.logger.WithField("clients", n).Info("Live hub stopped")
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(allowed) == 0 || origin == "" || allowed[origin]
	}
}
