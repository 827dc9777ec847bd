package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tightlines/internal/database"
	"github.com/yourusername/tightlines/internal/models"
)

func setupRepos(t *testing.T) (*Repositories, context.Context) {
	t.Helper()
	db := database.SetupTestDB(t)
	database.TruncateTestTables(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return repos, ctx
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestCompetitionRepositoryRoundTrip(t *testing.T) {
	repos, ctx := setupRepos(t)

	competition := &models.Competition{
		Title:      "Summer Open",
		Venue:      "Linear Fisheries",
		Date:       "2024-06-01",
		Time:       "10:00",
		EndTime:    "14:00",
		EntryFee:   decimal.RequireFromString("25.00"),
		MaxAnglers: 40,
		Published:  true,
	}
	require.NoError(t, repos.Competition.Create(ctx, competition))
	assert.NotEqual(t, uuid.Nil, competition.ID)

	got, err := repos.Competition.GetByID(ctx, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, "14:00", got.EndTime)
	assert.Empty(t, got.EndDate)
	assert.True(t, competition.EntryFee.Equal(got.EntryFee))

	got.Time = "25:00"
	require.NoError(t, repos.Competition.Update(ctx, got))

	// Malformed schedule values are stored verbatim so they can be flagged later
	reloaded, err := repos.Competition.GetByID(ctx, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, "25:00", reloaded.Time)

	list, err := repos.Competition.List(ctx, models.CompetitionFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repos.Competition.Delete(ctx, competition.ID))
	_, err = repos.Competition.GetByID(ctx, competition.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLeaderboardRepositoryDuplicatePeg(t *testing.T) {
	repos, ctx := setupRepos(t)

	competition := &models.Competition{Title: "Winter League R1", Venue: "Decoy Lakes", Date: "2024-01-13"}
	require.NoError(t, repos.Competition.Create(ctx, competition))

	first := &models.LeaderboardEntry{CompetitionID: competition.ID, AnglerName: "Sam Carter", Peg: 12, Weight: "12 lb 3 oz"}
	require.NoError(t, repos.Leaderboard.Create(ctx, first))

	second := &models.LeaderboardEntry{CompetitionID: competition.ID, AnglerName: "Jo Webb", Peg: 12, Weight: "3 lb 1 oz"}
	assert.ErrorIs(t, repos.Leaderboard.Create(ctx, second), models.ErrDuplicatePeg)

	entries, err := repos.Leaderboard.GetByCompetition(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].AnglerID)
}

func TestAnglerRepositorySearch(t *testing.T) {
	repos, ctx := setupRepos(t)

	require.NoError(t, repos.Angler.Create(ctx, &models.Angler{Name: "Sam Carter", Club: "Barnsley Blacks"}))
	require.NoError(t, repos.Angler.Create(ctx, &models.Angler{Name: "Jo Webb", Club: "Tri-Cast"}))

	found, err := repos.Angler.Search(ctx, "barnsley", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sam Carter", found[0].Name)
}
