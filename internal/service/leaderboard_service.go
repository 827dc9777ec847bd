package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/logger"
	"github.com/yourusername/tightlines/internal/metrics"
	"github.com/yourusername/tightlines/internal/models"
	"github.com/yourusername/tightlines/internal/repository"
	"github.com/yourusername/tightlines/internal/schedule"
	"github.com/yourusername/tightlines/internal/weight"
)

const leaderboardKeyPrefix = "leaderboard:"

// LeaderboardPublisher receives fresh leaderboards after a weigh-in
type LeaderboardPublisher interface {
	PublishLeaderboard(competitionID uuid.UUID, board *models.Leaderboard)
}

// LeaderboardService ranks weigh-ins and records new ones
type LeaderboardService struct {
	entries      repository.LeaderboardRepository
	competitions *CompetitionService
	cache        *ResponseCache
	publisher    LeaderboardPublisher
	audit        *logger.AuditLogger
	validate     *validator.Validate
	logger       *logrus.Logger
}

// NewLeaderboardService creates a new leaderboard service. publisher may be nil.
func NewLeaderboardService(
	entries repository.LeaderboardRepository,
	competitions *CompetitionService,
	cache *ResponseCache,
	publisher LeaderboardPublisher,
	log *logrus.Logger,
) *LeaderboardService {
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	return &LeaderboardService{
		entries:      entries,
		competitions: competitions,
		cache:        cache,
		publisher:    publisher,
		audit:        logger.NewAuditLogger(log),
		validate:     validator.New(),
		logger:       log,
	}
}

// Rank returns the competition's leaderboard, heaviest bag first
func (s *LeaderboardService) Rank(ctx context.Context, competitionID uuid.UUID) (*models.Leaderboard, error) {
	competition, err := s.competitions.Get(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	entries, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	return &models.Leaderboard{
		Competition: competition,
		Entries:     RankEntries(entries),
		GeneratedAt: s.competitions.now().UTC(),
	}, nil
}

// TeamTotals sums member weights per team. Entries without a team are skipped.
func (s *LeaderboardService) TeamTotals(ctx context.Context, competitionID uuid.UUID) ([]models.TeamTotal, error) {
	if _, err := s.competitions.Get(ctx, competitionID); err != nil {
		return nil, err
	}

	entries, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	return TotalTeams(entries), nil
}

// RecordWeighIn validates an entry, stores its weight in display form and
// publishes the updated leaderboard.
func (s *LeaderboardService) RecordWeighIn(ctx context.Context, entry *models.LeaderboardEntry) (*models.Leaderboard, error) {
	entry.AnglerName = strings.TrimSpace(entry.AnglerName)
	entry.TeamName = strings.TrimSpace(entry.TeamName)

	if err := s.validate.Struct(entry); err != nil {
		return nil, models.NewValidationError("invalid_entry", err.Error())
	}

	total, err := weight.Parse(entry.Weight)
	if err != nil {
		return nil, models.ErrInvalidWeight
	}
	entry.Weight = weight.Format(total)

	competition, err := s.competitions.Get(ctx, entry.CompetitionID)
	if err != nil {
		return nil, err
	}
	if competition.Status == schedule.StatusUpcoming {
		return nil, models.ErrWeighInsNotOpen
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		if errors.Is(err, models.ErrDuplicatePeg) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record weigh-in: %w", err)
	}

	s.cache.Delete(leaderboardKey(entry.CompetitionID))
	metrics.RecordWeighIn()
	s.audit.LogWeighIn(entry.ID.String(), entry.CompetitionID.String(), entry.AnglerName, entry.Peg, entry.Weight, total, time.Now())

	board, err := s.Rank(ctx, entry.CompetitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to rank after weigh-in: %w", err)
	}

	if s.publisher != nil {
		s.publisher.PublishLeaderboard(entry.CompetitionID, board)
	}
	return board, nil
}

// CorrectWeight replaces the weight on an existing entry
func (s *LeaderboardService) CorrectWeight(ctx context.Context, entryID uuid.UUID, newWeight, changedBy string) (*models.Leaderboard, error) {
	total, err := weight.Parse(newWeight)
	if err != nil {
		return nil, models.ErrInvalidWeight
	}

	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	previous := entry.Weight
	entry.Weight = weight.Format(total)
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	s.cache.Delete(leaderboardKey(entry.CompetitionID))
	s.audit.LogWeightCorrection(entryID.String(), previous, entry.Weight, changedBy)

	board, err := s.Rank(ctx, entry.CompetitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to rank after correction: %w", err)
	}
	if s.publisher != nil {
		s.publisher.PublishLeaderboard(entry.CompetitionID, board)
	}
	return board, nil
}

// Invalidate drops every cached leaderboard
func (s *LeaderboardService) Invalidate() {
	s.cache.InvalidatePrefix(leaderboardKeyPrefix)
}

func (s *LeaderboardService) load(ctx context.Context, competitionID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	key := leaderboardKey(competitionID)
	if cached, ok := cachedAs[[]*models.LeaderboardEntry](s.cache, key); ok {
		return cached, nil
	}

	entries, err := s.entries.GetByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard entries: %w", err)
	}

	s.cache.Set(key, entries)
	return entries, nil
}

func leaderboardKey(competitionID uuid.UUID) string {
	return leaderboardKeyPrefix + competitionID.String()
}

// RankEntries orders entries by total ounces descending. Equal weights share
// a position and the next position is skipped (1, 1, 3). Ties are listed in
// peg order.
func RankEntries(entries []*models.LeaderboardEntry) []models.RankedEntry {
	ranked := make([]models.RankedEntry, len(entries))
	for i, e := range entries {
		total := weight.ParseOrZero(e.Weight)
		ranked[i] = models.RankedEntry{
			TotalOunces: total,
			Display:     weight.FormatValue(e.Weight),
			Metric:      weight.FormatMetric(total),
			Entry:       e,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalOunces != b.TotalOunces {
			return a.TotalOunces > b.TotalOunces
		}
		if a.Entry.Peg != b.Entry.Peg {
			return a.Entry.Peg < b.Entry.Peg
		}
		return a.Entry.AnglerName < b.Entry.AnglerName
	})

	for i := range ranked {
		if i > 0 && ranked[i].TotalOunces == ranked[i-1].TotalOunces {
			ranked[i].Position = ranked[i-1].Position
		} else {
			ranked[i].Position = i + 1
		}
	}
	return ranked
}

// TotalTeams aggregates entries by team name using competition ranking
func TotalTeams(entries []*models.LeaderboardEntry) []models.TeamTotal {
	order := make([]string, 0)
	members := make(map[string][]string)
	weights := make(map[string][]interface{})

	for _, e := range entries {
		if e.TeamName == "" {
			continue
		}
		if _, seen := members[e.TeamName]; !seen {
			order = append(order, e.TeamName)
		}
		members[e.TeamName] = append(members[e.TeamName], e.AnglerName)
		weights[e.TeamName] = append(weights[e.TeamName], e.Weight)
	}

	totals := make([]models.TeamTotal, 0, len(order))
	for _, team := range order {
		total := weight.Sum(weights[team]...)
		totals = append(totals, models.TeamTotal{
			TeamName:    team,
			Members:     members[team],
			TotalOunces: total,
			Display:     weight.Format(total),
		})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].TotalOunces != totals[j].TotalOunces {
			return totals[i].TotalOunces > totals[j].TotalOunces
		}
		return totals[i].TeamName < totals[j].TeamName
	})

	for i := range totals {
		if i > 0 && totals[i].TotalOunces == totals[i-1].TotalOunces {
			totals[i].Position = totals[i-1].Position
		} else {
			totals[i].Position = i + 1
		}
	}
	return totals
}
