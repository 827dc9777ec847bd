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

const anglerColumns = `id, name, COALESCE(club, ''), COALESCE(town, ''), COALESCE(bio, ''), created_at, updated_at`

// PostgresAnglerRepository implements AnglerRepository for PostgreSQL
type PostgresAnglerRepository struct {
	db *database.DB
}

// NewPostgresAnglerRepository creates a new angler repository
func NewPostgresAnglerRepository(db *database.DB) AnglerRepository {
	return &PostgresAnglerRepository{db: db}
}

// Create inserts a new angler
func (r *PostgresAnglerRepository) Create(ctx context.Context, a *models.Angler) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	query := `
		INSERT INTO anglers (id, name, club, town, bio)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
		RETURNING created_at, updated_at
	`

	err := r.db.Querier(ctx).QueryRow(ctx, query, a.ID, a.Name, a.Club, a.Town, a.Bio).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create angler: %w", err)
	}

	return nil
}

// GetByID retrieves an angler by ID
func (r *PostgresAnglerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Angler, error) {
	query := `SELECT ` + anglerColumns + ` FROM anglers WHERE id = $1`

	a, err := scanAngler(r.db.Querier(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get angler: %w", err)
	}

	return a, nil
}

// List retrieves anglers alphabetically
func (r *PostgresAnglerRepository) List(ctx context.Context, limit, offset int) ([]*models.Angler, error) {
	query := `SELECT ` + anglerColumns + ` FROM anglers ORDER BY name ASC LIMIT $1 OFFSET $2`
	return r.query(ctx, query, limit, offset)
}

// Search matches anglers by name or club
func (r *PostgresAnglerRepository) Search(ctx context.Context, q string, limit int) ([]*models.Angler, error) {
	query := `
		SELECT ` + anglerColumns + ` FROM anglers
		WHERE name ILIKE '%' || $1 || '%' OR club ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2
	`
	return r.query(ctx, query, q, limit)
}

func (r *PostgresAnglerRepository) query(ctx context.Context, query string, args ...any) ([]*models.Angler, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query anglers: %w", err)
	}
	defer rows.Close()

	var anglers []*models.Angler
	for rows.Next() {
		a, err := scanAngler(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan angler: %w", err)
		}
		anglers = append(anglers, a)
	}

	return anglers, rows.Err()
}

func scanAngler(row pgx.Row) (*models.Angler, error) {
	a := &models.Angler{}
	if err := row.Scan(&a.ID, &a.Name, &a.Club, &a.Town, &a.Bio, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}
