// Package scheduler periodically reclassifies competitions and announces status changes.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/config"
	"github.com/yourusername/tightlines/internal/live"
	"github.com/yourusername/tightlines/internal/logger"
	"github.com/yourusername/tightlines/internal/metrics"
	"github.com/yourusername/tightlines/internal/models"
	"github.com/yourusername/tightlines/internal/schedule"
	"github.com/yourusername/tightlines/internal/tracing"
)

// CompetitionLister lists competitions with derived statuses
type CompetitionLister interface {
	List(ctx context.Context, filter models.CompetitionFilter) ([]*models.CompetitionView, error)
	Invalidate()
}

// StatusBroadcaster receives lifecycle transitions
type StatusBroadcaster interface {
	PublishStatusChange(change live.StatusChange)
}

// RefreshResult summarises one refresh run
type RefreshResult struct {
	Evaluated   int
	Transitions []live.StatusChange
	Invalid     int
	Counts      map[schedule.Status]int
}

type observed struct {
	status schedule.Status
	title  string
}

// Scheduler runs the status refresh job on a cron schedule
type Scheduler struct {
	cron         *cron.Cron
	competitions CompetitionLister
	broadcaster  StatusBroadcaster
	scheduleLog  *logger.ScheduleLogger
	logger       *logrus.Logger
	tracer       atomic.Pointer[tracing.Tracer]

	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	refreshTimeout  time.Duration
	gracefulTimeout time.Duration

	stateMu sync.Mutex
	last    map[uuid.UUID]observed
}

// NewScheduler creates a scheduler whose cron expressions are read in loc.
// broadcaster may be nil.
func NewScheduler(competitions CompetitionLister, broadcaster StatusBroadcaster, loc *time.Location, log *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(loc), cron.WithParser(config.CronParser)),
		competitions:    competitions,
		broadcaster:     broadcaster,
		scheduleLog:     logger.NewScheduleLogger(log),
		logger:          log,
		jobIDs:          make([]cron.EntryID, 0),
		refreshTimeout:  30 * time.Second,
		gracefulTimeout: 30 * time.Second,
		last:            make(map[uuid.UUID]observed),
	}
}

// SetTracer records each scheduled refresh as an X-Ray segment
func (s *Scheduler) SetTracer(t *tracing.Tracer) {
	s.tracer.Store(t)
}

// ScheduleStatusRefresh registers the refresh job
func (s *Scheduler) ScheduleStatusRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
		defer cancel()

		err := s.tracer.Load().Trace(ctx, "status-refresh", func(ctx context.Context) error {
			result, err := s.RefreshOnce(ctx)
			if err == nil {
				tracing.AddAnnotation(ctx, "evaluated", result.Evaluated)
				tracing.AddAnnotation(ctx, "transitions", len(result.Transitions))
			}
			return err
		})
		if err != nil {
			s.logger.WithError(err).Error("Status refresh failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled competition status refresh")

	return nil
}

// RefreshOnce classifies every published competition, records counts and
// announces any status that changed since the previous run. The first run
// only establishes a baseline.
func (s *Scheduler) RefreshOnce(ctx context.Context) (*RefreshResult, error) {
	started := time.Now()

	s.competitions.Invalidate()
	views, err := s.competitions.List(ctx, models.CompetitionFilter{PublishedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}

	result := &RefreshResult{
		Evaluated: len(views),
		Counts: map[schedule.Status]int{
			schedule.StatusUpcoming:  0,
			schedule.StatusLive:      0,
			schedule.StatusCompleted: 0,
			schedule.StatusUnknown:   0,
		},
	}

	s.stateMu.Lock()
	seen := make(map[uuid.UUID]bool, len(views))
	for _, v := range views {
		result.Counts[v.Status]++
		if v.Status == schedule.StatusUnknown {
			result.Invalid++
			field := v.InvalidField
			if field == "" {
				field = "unknown"
			}
			metrics.RecordScheduleValidationError(field)
		}

		seen[v.ID] = true
		prev, known := s.last[v.ID]
		s.last[v.ID] = observed{status: v.Status, title: v.Title}
		if !known || prev.status == v.Status {
			continue
		}

		result.Transitions = append(result.Transitions, live.StatusChange{
			CompetitionID: v.ID,
			Title:         v.Title,
			From:          prev.status.String(),
			To:            v.Status.String(),
		})
	}
	for id := range s.last {
		if !seen[id] {
			delete(s.last, id)
		}
	}
	s.stateMu.Unlock()

	counts := make(map[string]int, len(result.Counts))
	for status, n := range result.Counts {
		counts[status.String()] = n
	}
	metrics.UpdateCompetitionsByStatus(counts)

	now := time.Now()
	for _, change := range result.Transitions {
		metrics.RecordStatusTransition(change.From, change.To)
		s.scheduleLog.LogStatusTransition(change.CompetitionID.String(), change.Title, change.From, change.To, now)
		if s.broadcaster != nil {
			s.broadcaster.PublishStatusChange(change)
		}
	}

	elapsed := time.Since(started)
	metrics.RecordStatusRefresh(elapsed.Seconds())
	s.scheduleLog.LogRefresh(result.Evaluated, len(result.Transitions), result.Invalid, elapsed)

	return result, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs to finish, up to the graceful timeout.
// The lock is not held while waiting.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	stopped := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-stopped.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler did not stop within %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		if entry := s.cron.Entry(jobID); entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
