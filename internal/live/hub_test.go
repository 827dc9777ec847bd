package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tightlines/internal/models"
)

func newTestHub(t *testing.T, bufferSize int) (*Hub, context.CancelFunc) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	h := NewHub(bufferSize, nil, log)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		return msg, ok
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID)
		return Message{}, false
	}
}

func assertNothingQueued(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.Send:
		t.Fatalf("client %s unexpectedly received %s", c.ID, msg.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRoutesByCompetition(t *testing.T) {
	h, _ := newTestHub(t, 8)
	compA, compB := uuid.New(), uuid.New()

	subA := NewClient(nil, h, compA, 8)
	subB := NewClient(nil, h, compB, 8)
	everything := NewClient(nil, h, uuid.Nil, 8)
	for _, c := range []*Client{subA, subB, everything} {
		h.Register(c)
	}
	require.Eventually(t, func() bool { return h.ClientCount() == 3 }, time.Second, 10*time.Millisecond)

	h.PublishLeaderboard(compA, &models.Leaderboard{})
	msg, ok := receive(t, subA)
	require.True(t, ok)
	assert.Equal(t, MessageTypeLeaderboardUpdate, msg.Type)
	assert.Equal(t, compA, msg.CompetitionID)
	assert.False(t, msg.Timestamp.IsZero())

	h.PublishStatusChange(StatusChange{CompetitionID: compB, Title: "July Cup", From: "upcoming", To: "live"})
	msg, ok = receive(t, subB)
	require.True(t, ok)
	assert.Equal(t, MessageTypeStatusChange, msg.Type)

	msg, ok = receive(t, everything)
	require.True(t, ok)
	change, isChange := msg.Payload.(StatusChange)
	require.True(t, isChange)
	assert.Equal(t, "live", change.To)

	assertNothingQueued(t, subA)
	assertNothingQueued(t, subB)
	assertNothingQueued(t, everything)
}

func TestHubDisconnectsSlowClient(t *testing.T) {
	h, _ := newTestHub(t, 1)
	comp := uuid.New()

	slow := NewClient(nil, h, comp, 1)
	h.Register(slow)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.PublishLeaderboard(comp, &models.Leaderboard{})
	h.PublishLeaderboard(comp, &models.Leaderboard{})

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	_, ok := receive(t, slow)
	assert.True(t, ok, "first message stays queued")
	_, ok = receive(t, slow)
	assert.False(t, ok, "queue closed after disconnect")
	assert.False(t, slow.TrySend(Message{}))
}

func TestHubShutdownClosesClients(t *testing.T) {
	h, cancel := newTestHub(t, 4)
	c := NewClient(nil, h, uuid.New(), 4)
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()

	_, ok := receive(t, c)
	assert.False(t, ok)
	assert.Equal(t, 0, h.ClientCount())

	done := make(chan struct{})
	go func() {
		h.Unregister(c)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after shutdown")
	}
}

func TestServeWSStreamsLeaderboard(t *testing.T) {
	h, _ := newTestHub(t, 8)
	comp := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initial := &Message{Type: MessageTypeLeaderboardUpdate, CompetitionID: comp, Timestamp: time.Now()}
		if err := h.ServeWS(ctx, w, r, comp, initial); err != nil {
			t.Errorf("ServeWS: %v", err)
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var first Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, MessageTypeLeaderboardUpdate, first.Type)
	assert.Equal(t, comp, first.CompetitionID)

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.PublishStatusChange(StatusChange{CompetitionID: comp, From: "live", To: "completed"})
	var second Message
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, MessageTypeStatusChange, second.Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageTypeHeartbeat}))
	var beat Message
	require.NoError(t, conn.ReadJSON(&beat))
	assert.Equal(t, MessageTypeHeartbeat, beat.Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "subscribe"}))
	var rejected Message
	require.NoError(t, conn.ReadJSON(&rejected))
	assert.Equal(t, MessageTypeError, rejected.Type)

	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := originChecker(nil)
	assert.True(t, open(req("https://anywhere.example")))

	wildcard := originChecker([]string{"https://tightlines.example", "*"})
	assert.True(t, wildcard(req("https://anywhere.example")))

	strict := originChecker([]string{"https://tightlines.example"})
	assert.True(t, strict(req("https://tightlines.example")))
	assert.True(t, strict(req("")))
	assert.False(t, strict(req("https://evil.example")))
}
