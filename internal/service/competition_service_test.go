package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tightlines/internal/logger"
	"github.com/yourusername/tightlines/internal/metrics"
	"github.com/yourusername/tightlines/internal/models"
	"github.com/yourusername/tightlines/internal/schedule"
)

// Saturday 1 June 2024, 11:00 BST
var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func competition(title, date, start, endDate, endTime string) *models.Competition {
	return &models.Competition{
		ID:        uuid.New(),
		Title:     title,
		Venue:     "Linear Fisheries",
		Date:      date,
		Time:      start,
		EndDate:   endDate,
		EndTime:   endTime,
		Published: true,
	}
}

func newCompetitionService(repo *MockCompetitionRepository, ttl time.Duration) *CompetitionService {
	return NewCompetitionService(repo, schedule.Default(), NewResponseCache("competitions", ttl), logger.NewDiscardLogger()).
		WithClock(fixedClock)
}

func TestCompetitionServiceListOrdersByStatus(t *testing.T) {
	live := competition("Summer Open", "2024-06-01", "09:00", "", "14:00")
	upcomingLater := competition("Autumn Pairs", "2024-09-14", "08:00", "", "")
	upcomingSoon := competition("July Cup", "2024-07-06", "", "", "")
	completed := competition("Spring Festival", "2024-05-01", "07:00", "2024-05-03", "")
	invalid := competition("Broken Record", "2024-02-30", "09:00", "", "")

	repo := new(MockCompetitionRepository)
	repo.On("List", mock.Anything, models.CompetitionFilter{}).
		Return([]*models.Competition{invalid, completed, upcomingLater, live, upcomingSoon}, nil).Once()

	svc := newCompetitionService(repo, time.Minute)
	views, err := svc.List(context.Background(), models.CompetitionFilter{})
	require.NoError(t, err)
	require.Len(t, views, 5)

	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}
	assert.Equal(t, []string{"Summer Open", "July Cup", "Autumn Pairs", "Spring Festival", "Broken Record"}, titles)

	assert.Equal(t, schedule.StatusLive, views[0].Status)
	assert.Equal(t, schedule.StatusUpcoming, views[1].Status)
	assert.Equal(t, schedule.StatusCompleted, views[3].Status)

	broken := views[4]
	assert.Equal(t, schedule.StatusUnknown, broken.Status)
	assert.NotEmpty(t, broken.ScheduleError)
	assert.Nil(t, broken.StartsAt)

	require.NotNil(t, views[0].StartsAt)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), *views[0].StartsAt)
	assert.Equal(t, time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC), *views[0].EndsAt)

	repo.AssertExpectations(t)
}

func TestCompetitionServiceWarnsOncePerInvalidRecord(t *testing.T) {
	log, hook := test.NewNullLogger()
	resolver, err := schedule.NewResolver(schedule.DefaultZone, log)
	require.NoError(t, err)

	broken := competition("Broken Record", "2024-06-01", "09:00", "", "late")
	repo := new(MockCompetitionRepository)
	repo.On("List", mock.Anything, models.CompetitionFilter{}).
		Return([]*models.Competition{broken}, nil).Twice()

	svc := NewCompetitionService(repo, resolver, NewResponseCache("competitions", 0), log).WithClock(fixedClock)

	counter := metrics.ScheduleValidationErrorsTotal.WithLabelValues("endTime")
	before := testutil.ToFloat64(counter)

	views, err := svc.List(context.Background(), models.CompetitionFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "endTime", views[0].InvalidField)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)

	_, err = svc.List(context.Background(), models.CompetitionFilter{})
	require.NoError(t, err)
	assert.Equal(t, before, testutil.ToFloat64(counter), "listing does not count validation errors")

	repo.AssertExpectations(t)
}

func TestCompetitionServiceListFiltersByStatus(t *testing.T) {
	repo := new(MockCompetitionRepository)
	repo.On("List", mock.Anything, models.CompetitionFilter{PublishedOnly: true}).Return([]*models.Competition{
		competition("Summer Open", "2024-06-01", "09:00", "", "14:00"),
		competition("July Cup", "2024-07-06", "", "", ""),
		competition("Autumn Pairs", "2024-09-14", "", "", ""),
	}, nil)

	svc := newCompetitionService(repo, time.Minute)

	views, err := svc.List(context.Background(), models.CompetitionFilter{Status: schedule.StatusUpcoming, PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "July Cup", views[0].Title)

	views, err = svc.List(context.Background(), models.CompetitionFilter{
		Status:        schedule.StatusUpcoming,
		PublishedOnly: true,
		Offset:        1,
		Limit:         5,
	})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Autumn Pairs", views[0].Title)
}

func TestCompetitionServiceListUsesCache(t *testing.T) {
	repo := new(MockCompetitionRepository)
	repo.On("List", mock.Anything, models.CompetitionFilter{}).
		Return([]*models.Competition{competition("July Cup", "2024-07-06", "", "", "")}, nil).Twice()

	svc := newCompetitionService(repo, time.Minute)
	ctx := context.Background()

	_, err := svc.List(ctx, models.CompetitionFilter{})
	require.NoError(t, err)
	_, err = svc.List(ctx, models.CompetitionFilter{Status: schedule.StatusLive})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 1)

	svc.Invalidate()
	_, err = svc.List(ctx, models.CompetitionFilter{})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)
}

func TestCompetitionServiceStatusFollowsClock(t *testing.T) {
	c := competition("Summer Open", "2024-06-01", "09:00", "", "14:00")
	repo := new(MockCompetitionRepository)
	repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)

	tests := []struct {
		name string
		now  time.Time
		want schedule.Status
	}{
		{"before start", time.Date(2024, 6, 1, 7, 59, 0, 0, time.UTC), schedule.StatusUpcoming},
		{"exact start", time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), schedule.StatusLive},
		{"exact end", time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC), schedule.StatusLive},
		{"after end", time.Date(2024, 6, 1, 13, 0, 1, 0, time.UTC), schedule.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			svc := newCompetitionService(repo, 0).WithClock(func() time.Time { return now })
			view, err := svc.Get(context.Background(), c.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.Status)
		})
	}
}

func TestCompetitionServiceGetNotFound(t *testing.T) {
	id := uuid.New()
	repo := new(MockCompetitionRepository)
	repo.On("GetByID", mock.Anything, id).Return(nil, models.ErrNotFound)

	svc := newCompetitionService(repo, time.Minute)
	_, err := svc.Get(context.Background(), id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestCompetitionServiceListError(t *testing.T) {
	repo := new(MockCompetitionRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	svc := newCompetitionService(repo, time.Minute)
	_, err := svc.List(context.Background(), models.CompetitionFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list competitions")
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, paginate(items, 0, 0))
	assert.Equal(t, []int{2, 3}, paginate(items, 1, 2))
	assert.Equal(t, []int{5}, paginate(items, 4, 10))
	assert.Empty(t, paginate(items, 9, 1))
	assert.Equal(t, []int{1}, paginate(items, -3, 1))
}
