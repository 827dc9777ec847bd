// Package service provides competition listing, leaderboard ranking and weigh-in recording.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/logger"
	"github.com/yourusername/tightlines/internal/models"
	"github.com/yourusername/tightlines/internal/repository"
	"github.com/yourusername/tightlines/internal/schedule"
)

const competitionsKeyPrefix = "competitions:"

// Clock returns the current instant
type Clock func() time.Time

// CompetitionService derives competition statuses for listings and detail pages
type CompetitionService struct {
	repo        repository.CompetitionRepository
	resolver    *schedule.Resolver
	cache       *ResponseCache
	scheduleLog *logger.ScheduleLogger
	logger      *logrus.Logger
	now         Clock
}

// NewCompetitionService creates a new competition service
func NewCompetitionService(
	repo repository.CompetitionRepository,
	resolver *schedule.Resolver,
	cache *ResponseCache,
	log *logrus.Logger,
) *CompetitionService {
	if resolver == nil {
		resolver = schedule.Default()
	}
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	return &CompetitionService{
		repo:        repo,
		resolver:    resolver,
		cache:       cache,
		scheduleLog: logger.NewScheduleLogger(log),
		logger:      log,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for status derivation
func (s *CompetitionService) WithClock(clock Clock) *CompetitionService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Resolver returns the schedule resolver in use
func (s *CompetitionService) Resolver() *schedule.Resolver {
	return s.resolver
}

// List returns competitions with their status derived against a single
// instant, sorted live first, then upcoming, then completed.
func (s *CompetitionService) List(ctx context.Context, filter models.CompetitionFilter) ([]*models.CompetitionView, error) {
	competitions, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := s.Classify(competitions, s.now())

	if filter.Status != "" {
		filtered := views[:0]
		for _, v := range views {
			if v.Status == filter.Status {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	SortViews(views)
	return paginate(views, filter.Offset, filter.Limit), nil
}

// Get returns one competition with its current status
func (s *CompetitionService) Get(ctx context.Context, id uuid.UUID) (*models.CompetitionView, error) {
	competition, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return s.Classify([]*models.Competition{competition}, s.now())[0], nil
}

// Classify derives a view for every competition at the given instant.
// Records whose schedule fails validation are kept with StatusUnknown and
// flagged for correction.
func (s *CompetitionService) Classify(competitions []*models.Competition, now time.Time) []*models.CompetitionView {
	schedules := make([]schedule.CompetitionSchedule, len(competitions))
	for i, c := range competitions {
		schedules[i] = c.Schedule()
	}

	results := s.resolver.ClassifyAll(schedules, now)
	views := make([]*models.CompetitionView, len(competitions))
	for i, c := range competitions {
		view := &models.CompetitionView{Competition: c, Status: results[i].Status}
		if results[i].Err != nil {
			view.ScheduleError = results[i].Err.Error()
			view.InvalidField = schedule.InvalidField(results[i].Err)
			s.scheduleLog.LogInvalidSchedule(c.ID.String(), c.Title, results[i].Err)
		} else if start, end, err := s.resolver.Window(schedules[i]); err == nil {
			view.StartsAt = &start
			view.EndsAt = &end
		}
		views[i] = view
	}
	return views
}

// Invalidate drops cached competition listings
func (s *CompetitionService) Invalidate() {
	s.cache.InvalidatePrefix(competitionsKeyPrefix)
}

// load fetches the unpaginated list so status filtering and sorting see every record
func (s *CompetitionService) load(ctx context.Context, filter models.CompetitionFilter) ([]*models.Competition, error) {
	query := models.CompetitionFilter{
		Venue:         filter.Venue,
		PublishedOnly: filter.PublishedOnly,
	}
	key := fmt.Sprintf("%svenue=%s:published=%t", competitionsKeyPrefix, query.Venue, query.PublishedOnly)

	if cached, ok := cachedAs[[]*models.Competition](s.cache, key); ok {
		return cached, nil
	}

	competitions, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}

	s.cache.Set(key, competitions)
	return competitions, nil
}

// SortViews orders views by status rank, then start time, then title
func SortViews(views []*models.CompetitionView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if ra, rb := a.Status.Rank(), b.Status.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.StartsAt != nil && b.StartsAt != nil && !a.StartsAt.Equal(*b.StartsAt):
			// Completed competitions read most recent first
			if a.Status == schedule.StatusCompleted {
				return a.StartsAt.After(*b.StartsAt)
			}
			return a.StartsAt.Before(*b.StartsAt)
		case a.StartsAt != nil && b.StartsAt == nil:
			return true
		case a.StartsAt == nil && b.StartsAt != nil:
			return false
		}
		return a.Title < b.Title
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
