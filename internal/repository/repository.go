package repository

import (
	"fmt"

	"github.com/yourusername/tightlines/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Competition CompetitionRepository
	Leaderboard LeaderboardRepository
	Angler      AnglerRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Competition: NewPostgresCompetitionRepository(db),
		Leaderboard: NewPostgresLeaderboardRepository(db),
		Angler:      NewPostgresAnglerRepository(db),
	}, nil
}
