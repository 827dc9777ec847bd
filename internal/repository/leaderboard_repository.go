package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/tightlines/internal/database"
	"github.com/yourusername/tightlines/internal/models"
)

const leaderboardColumns = `
	id, competition_id, angler_id, angler_name, COALESCE(team_name, ''), peg, weight,
	fish_count, created_at, updated_at`

// PostgresLeaderboardRepository implements LeaderboardRepository for PostgreSQL
type PostgresLeaderboardRepository struct {
	db *database.DB
}

// NewPostgresLeaderboardRepository creates a new leaderboard repository
func NewPostgresLeaderboardRepository(db *database.DB) LeaderboardRepository {
	return &PostgresLeaderboardRepository{db: db}
}

// Create inserts a weigh-in. A second weigh-in on the same peg returns models.ErrDuplicatePeg.
func (r *PostgresLeaderboardRepository) Create(ctx context.Context, e *models.LeaderboardEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query := `
		INSERT INTO leaderboard_entries (id, competition_id, angler_id, angler_name, team_name, peg, weight, fish_count)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		e.ID, e.CompetitionID, nullableUUID(e.AnglerID), e.AnglerName, e.TeamName, e.Peg, e.Weight, e.FishCount,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return models.ErrDuplicatePeg
	}
	if err != nil {
		return fmt.Errorf("failed to create leaderboard entry: %w", err)
	}

	return nil
}

// GetByID retrieves a single entry
func (r *PostgresLeaderboardRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LeaderboardEntry, error) {
	query := `SELECT ` + leaderboardColumns + ` FROM leaderboard_entries WHERE id = $1`

	e, err := scanEntry(r.db.Querier(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard entry: %w", err)
	}

	return e, nil
}

// GetByCompetition retrieves every entry for a competition in peg order.
// Ranking happens in the service because weights are stored as display text.
func (r *PostgresLeaderboardRepository) GetByCompetition(ctx context.Context, competitionID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	query := `SELECT ` + leaderboardColumns + ` FROM leaderboard_entries WHERE competition_id = $1 ORDER BY peg ASC, created_at ASC`

	rows, err := r.db.Querier(ctx).Query(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Update updates an existing entry
func (r *PostgresLeaderboardRepository) Update(ctx context.Context, e *models.LeaderboardEntry) error {
	query := `
		UPDATE leaderboard_entries SET
			angler_id = $2, angler_name = $3, team_name = NULLIF($4, ''), peg = $5, weight = $6,
			fish_count = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		e.ID, nullableUUID(e.AnglerID), e.AnglerName, e.TeamName, e.Peg, e.Weight, e.FishCount,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if database.IsUniqueViolation(err) {
		return models.ErrDuplicatePeg
	}
	if err != nil {
		return fmt.Errorf("failed to update leaderboard entry: %w", err)
	}

	return nil
}

// Delete deletes an entry
func (r *PostgresLeaderboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.Querier(ctx).Exec(ctx, "DELETE FROM leaderboard_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete leaderboard entry: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanEntry(row pgx.Row) (*models.LeaderboardEntry, error) {
	e := &models.LeaderboardEntry{}
	var anglerID uuid.NullUUID
	err := row.Scan(
		&e.ID, &e.CompetitionID, &anglerID, &e.AnglerName, &e.TeamName, &e.Peg, &e.Weight,
		&e.FishCount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if anglerID.Valid {
		id := anglerID.UUID
		e.AnglerID = &id
	}

	return e, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
