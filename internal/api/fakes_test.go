package api

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/tightlines/internal/models"
)

type memoryCompetitions struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Competition
}

func newMemoryCompetitions(items ...*models.Competition) *memoryCompetitions {
	m := &memoryCompetitions{items: make(map[uuid.UUID]*models.Competition)}
	for _, c := range items {
		m.items[c.ID] = c
	}
	return m
}

func (m *memoryCompetitions) Create(_ context.Context, c *models.Competition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c
	return nil
}

func (m *memoryCompetitions) GetByID(_ context.Context, id uuid.UUID) (*models.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return c, nil
}

func (m *memoryCompetitions) List(_ context.Context, filter models.CompetitionFilter) ([]*models.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Competition, 0, len(m.items))
	for _, c := range m.items {
		if filter.PublishedOnly && !c.Published {
			continue
		}
		if filter.Venue != "" && c.Venue != filter.Venue {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memoryCompetitions) Update(ctx context.Context, c *models.Competition) error {
	return m.Create(ctx, c)
}

func (m *memoryCompetitions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type memoryLeaderboard struct {
	mu      sync.Mutex
	entries []*models.LeaderboardEntry
}

func (m *memoryLeaderboard) Create(_ context.Context, e *models.LeaderboardEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.entries {
		if existing.CompetitionID == e.CompetitionID && existing.Peg == e.Peg {
			return models.ErrDuplicatePeg
		}
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryLeaderboard) GetByID(_ context.Context, id uuid.UUID) (*models.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memoryLeaderboard) GetByCompetition(_ context.Context, competitionID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.LeaderboardEntry, 0)
	for _, e := range m.entries {
		if e.CompetitionID == competitionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryLeaderboard) Update(_ context.Context, e *models.LeaderboardEntry) error {
	return nil
}

func (m *memoryLeaderboard) Delete(_ context.Context, id uuid.UUID) error {
	return nil
}

type memoryAnglers struct {
	items []*models.Angler
}

func (m *memoryAnglers) Create(_ context.Context, a *models.Angler) error {
	m.items = append(m.items, a)
	return nil
}

func (m *memoryAnglers) GetByID(_ context.Context, id uuid.UUID) (*models.Angler, error) {
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memoryAnglers) List(_ context.Context, limit, offset int) ([]*models.Angler, error) {
	if offset >= len(m.items) {
		return nil, nil
	}
	out := m.items[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryAnglers) Search(_ context.Context, query string, limit int) ([]*models.Angler, error) {
	out := make([]*models.Angler, 0)
	for _, a := range m.items {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(query)) {
			out = append(out, a)
		}
	}
	return out, nil
}
