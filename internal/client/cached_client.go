package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/metrics"
	"github.com/yourusername/tightlines/internal/models"
)

// CachedClient memoizes read responses for a TTL. Writes invalidate the
// entries they can affect. A non-positive TTL disables caching.
type CachedClient struct {
	client *APIClient
	cache  *cache.Cache
	logger *logrus.Logger

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedClient wraps client with a response cache
func NewCachedClient(client *APIClient, ttl time.Duration) *CachedClient {
	c := &CachedClient{
		client: client,
		logger: client.logger,
	}
	if ttl > 0 {
		c.cache = cache.New(ttl, ttl*2)
	}
	return c
}

// ListCompetitions lists competitions, cached per status filter
func (c *CachedClient) ListCompetitions(ctx context.Context, status string) (*models.CompetitionList, error) {
	return fetch(c, competitionsPath(status), func() (*models.CompetitionList, error) {
		return c.client.ListCompetitions(ctx, status)
	})
}

// GetCompetition fetches one competition
func (c *CachedClient) GetCompetition(ctx context.Context, id uuid.UUID) (*models.CompetitionView, error) {
	return fetch(c, competitionPath(id), func() (*models.CompetitionView, error) {
		return c.client.GetCompetition(ctx, id)
	})
}

// GetLeaderboard fetches a competition's leaderboard
func (c *CachedClient) GetLeaderboard(ctx context.Context, id uuid.UUID) (*models.Leaderboard, error) {
	return fetch(c, competitionPath(id)+"/leaderboard", func() (*models.Leaderboard, error) {
		return c.client.GetLeaderboard(ctx, id)
	})
}

// GetTeams fetches team standings
func (c *CachedClient) GetTeams(ctx context.Context, id uuid.UUID) (*models.TeamList, error) {
	return fetch(c, competitionPath(id)+"/teams", func() (*models.TeamList, error) {
		return c.client.GetTeams(ctx, id)
	})
}

// SearchAnglers searches the angler directory
func (c *CachedClient) SearchAnglers(ctx context.Context, query string) (*models.AnglerList, error) {
	return fetch(c, "/api/v1/anglers?q="+query, func() (*models.AnglerList, error) {
		return c.client.SearchAnglers(ctx, query)
	})
}

// ConvertWeight converts a weight; conversions never change so they are cached too
func (c *CachedClient) ConvertWeight(ctx context.Context, value string) (*models.WeightConversion, error) {
	return fetch(c, "/api/v1/weights/format?value="+value, func() (*models.WeightConversion, error) {
		return c.client.ConvertWeight(ctx, value)
	})
}

// RecordWeighIn submits a weigh-in and drops cached competition data
func (c *CachedClient) RecordWeighIn(ctx context.Context, competitionID uuid.UUID, req models.WeighInRequest) (*models.Leaderboard, error) {
	board, err := c.client.RecordWeighIn(ctx, competitionID, req)
	if err != nil {
		return nil, err
	}

	c.InvalidatePrefix(competitionPath(competitionID))
	if c.cache != nil {
		c.cache.SetDefault(competitionPath(competitionID)+"/leaderboard", board)
	}
	return board, nil
}

// InvalidatePrefix removes cached responses whose path starts with prefix
func (c *CachedClient) InvalidatePrefix(prefix string) int {
	if c.cache == nil {
		return 0
	}
	removed := 0
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
			removed++
		}
	}
	if removed > 0 {
		c.logger.WithFields(logrus.Fields{"prefix": prefix, "removed": removed}).Debug("Invalidated cached responses")
	}
	return removed
}

// ClearCache clears all cached responses
func (c *CachedClient) ClearCache() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

// GetCacheStats returns cache statistics
func (c *CachedClient) GetCacheStats() (hits, misses uint64, hitRatio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits, misses = c.hitCount, c.missCount
	if total := hits + misses; total > 0 {
		hitRatio = float64(hits) / float64(total)
	}
	return
}

// Close closes the underlying client
func (c *CachedClient) Close() error {
	return c.client.Close()
}

func (c *CachedClient) record(hit bool) {
	c.mu.Lock()
	if hit {
		c.hitCount++
	} else {
		c.missCount++
	}
	c.mu.Unlock()
	metrics.RecordCacheLookup("api_client", hit)
}

func fetch[T any](c *CachedClient, key string, load func() (*T, error)) (*T, error) {
	if c.cache == nil {
		return load()
	}
	if v, found := c.cache.Get(key); found {
		if typed, ok := v.(*T); ok {
			c.record(true)
			return typed, nil
		}
	}
	c.record(false)

	v, err := load()
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, v)
	return v, nil
}
