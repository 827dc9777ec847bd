// Package live streams leaderboard and status changes to websocket subscribers.
package live

import (
	"time"

	"github.com/google/uuid"
)

// Message types for websocket communication
const (
	MessageTypeLeaderboardUpdate = "leaderboard_update"
	MessageTypeStatusChange      = "status_change"
	MessageTypeHeartbeat         = "heartbeat"
	MessageTypeError             = "error"
)

// Message is sent from the server to subscribers
type Message struct {
	Type          string      `json:"type"`
	CompetitionID uuid.UUID   `json:"competitionId"`
	Payload       interface{} `json:"payload,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// ClientMessage is sent by subscribers; only heartbeats are understood
type ClientMessage struct {
	Type string `json:"type"`
}

// StatusChange announces a competition moving between lifecycle statuses
type StatusChange struct {
	CompetitionID uuid.UUID `json:"competitionId"`
	Title         string    `json:"title"`
	From          string    `json:"from"`
	To            string    `json:"to"`
}

// ErrorMessage describes a rejected client message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
