package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/tightlines/internal/models"
)

// CompetitionRepository defines the interface for competition data access
type CompetitionRepository interface {
	Create(ctx context.Context, competition *models.Competition) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Competition, error)
	// List ignores filter.Status; status is derived, not stored
	List(ctx context.Context, filter models.CompetitionFilter) ([]*models.Competition, error)
	Update(ctx context.Context, competition *models.Competition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LeaderboardRepository defines the interface for leaderboard entry data access
type LeaderboardRepository interface {
	Create(ctx context.Context, entry *models.LeaderboardEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LeaderboardEntry, error)
	GetByCompetition(ctx context.Context, competitionID uuid.UUID) ([]*models.LeaderboardEntry, error)
	Update(ctx context.Context, entry *models.LeaderboardEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnglerRepository defines the interface for angler directory data access
type AnglerRepository interface {
	Create(ctx context.Context, angler *models.Angler) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Angler, error)
	List(ctx context.Context, limit, offset int) ([]*models.Angler, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Angler, error)
}
