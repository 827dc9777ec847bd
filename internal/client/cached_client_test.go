package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tightlines/internal/models"
)

type countingServer struct {
	*httptest.Server
	gets  int32
	posts int32
}

func newCountingServer(t *testing.T) *countingServer {
	cs := &countingServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			atomic.AddInt32(&cs.posts, 1)
			writeJSON(t, w, http.StatusCreated, models.Leaderboard{Entries: []models.RankedEntry{{Position: 1}}})
			return
		}
		atomic.AddInt32(&cs.gets, 1)
		switch {
		case strings.HasSuffix(r.URL.Path, "/leaderboard"):
			writeJSON(t, w, http.StatusOK, models.Leaderboard{})
		case strings.HasSuffix(r.URL.Path, "/teams"):
			writeJSON(t, w, http.StatusOK, models.TeamList{})
		default:
			writeJSON(t, w, http.StatusOK, models.CompetitionList{Count: 1})
		}
	}))
	t.Cleanup(cs.Close)
	return cs
}

func newCachedClient(t *testing.T, url string) *CachedClient {
	t.Helper()
	api, err := NewAPIClient(url, testConfig(), nil)
	require.NoError(t, err)
	return NewCachedClient(api, time.Minute)
}

func TestCachedClientMemoizesReads(t *testing.T) {
	server := newCountingServer(t)
	c := newCachedClient(t, server.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		list, err := c.ListCompetitions(ctx, "live")
		require.NoError(t, err)
		assert.Equal(t, 1, list.Count)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&server.gets))

	_, err := c.ListCompetitions(ctx, "upcoming")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&server.gets))

	hits, misses, ratio := c.GetCacheStats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(2), misses)
	assert.InDelta(t, 0.5, ratio, 0.0001)
}

func TestCachedClientWeighInInvalidatesCompetition(t *testing.T) {
	server := newCountingServer(t)
	c := newCachedClient(t, server.URL)
	ctx := context.Background()
	id, other := uuid.New(), uuid.New()

	_, err := c.GetLeaderboard(ctx, id)
	require.NoError(t, err)
	_, err = c.GetTeams(ctx, id)
	require.NoError(t, err)
	_, err = c.GetTeams(ctx, other)
	require.NoError(t, err)
	require.Equal(t, int32(3), atomic.LoadInt32(&server.gets))

	board, err := c.RecordWeighIn(ctx, id, models.WeighInRequest{AnglerName: "Alice", Weight: "4 lb 7 oz"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&server.posts))

	// The posted leaderboard replaces the cached one
	cached, err := c.GetLeaderboard(ctx, id)
	require.NoError(t, err)
	assert.Same(t, board, cached)
	assert.Equal(t, int32(3), atomic.LoadInt32(&server.gets))

	_, err = c.GetTeams(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&server.gets))

	_, err = c.GetTeams(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&server.gets))
}

func TestCachedClientInvalidatePrefix(t *testing.T) {
	server := newCountingServer(t)
	c := newCachedClient(t, server.URL)
	ctx := context.Background()

	_, err := c.ListCompetitions(ctx, "")
	require.NoError(t, err)
	_, err = c.ListCompetitions(ctx, "live")
	require.NoError(t, err)

	assert.Equal(t, 2, c.InvalidatePrefix("/api/v1/competitions"))
	assert.Equal(t, 0, c.InvalidatePrefix("/api/v1/anglers"))

	c.ClearCache()
	_, err = c.ListCompetitions(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&server.gets))
}

func TestCachedClientZeroTTLDisablesCache(t *testing.T) {
	server := newCountingServer(t)
	api, err := NewAPIClient(server.URL, testConfig(), nil)
	require.NoError(t, err)
	c := NewCachedClient(api, 0)
	ctx := context.Background()
	id := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := c.ListCompetitions(ctx, "live")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&server.gets))

	_, err = c.RecordWeighIn(ctx, id, models.WeighInRequest{AnglerName: "Alice", Weight: "4 lb 7 oz"})
	require.NoError(t, err)
	_, err = c.GetLeaderboard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&server.gets))

	assert.Equal(t, 0, c.InvalidatePrefix("/api/v1"))
	c.ClearCache()
	hits, _, _ := c.GetCacheStats()
	assert.Zero(t, hits)
}
