package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/tightlines/internal/database"
	"github.com/yourusername/tightlines/internal/models"
)

const (
	errScanCompetition = "failed to scan competition: %w"

	// Schedule fields are text columns holding the values exactly as entered,
	// so a malformed time survives to be flagged rather than rejected by the driver
	competitionColumns = `
		id, title, venue, description, date, COALESCE(time, ''), COALESCE(end_date, ''),
		COALESCE(end_time, ''), COALESCE(entry_fee, 0)::text, max_anglers, published, created_at, updated_at`
)

// PostgresCompetitionRepository implements CompetitionRepository for PostgreSQL
type PostgresCompetitionRepository struct {
	db *database.DB
}

// NewPostgresCompetitionRepository creates a new competition repository
func NewPostgresCompetitionRepository(db *database.DB) CompetitionRepository {
	return &PostgresCompetitionRepository{db: db}
}

// Create inserts a new competition
func (r *PostgresCompetitionRepository) Create(ctx context.Context, c *models.Competition) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `
		INSERT INTO competitions (id, title, venue, description, date, time, end_date, end_time,
		                          entry_fee, max_anglers, published)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9::numeric, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		c.ID, c.Title, c.Venue, c.Description, c.Date, c.Time, c.EndDate, c.EndTime,
		c.EntryFee.String(), c.MaxAnglers, c.Published,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return models.ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("failed to create competition: %w", err)
	}

	return nil
}

// GetByID retrieves a competition by ID
func (r *PostgresCompetitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1`

	c, err := scanCompetition(r.db.Querier(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}

	return c, nil
}

// List retrieves competitions ordered by start date
func (r *PostgresCompetitionRepository) List(ctx context.Context, filter models.CompetitionFilter) ([]*models.Competition, error) {
	var (
		where []string
		args  []any
	)
	if filter.PublishedOnly {
		where = append(where, "published = TRUE")
	}
	if filter.Venue != "" {
		args = append(args, filter.Venue)
		where = append(where, fmt.Sprintf("venue ILIKE $%d", len(args)))
	}

	query := `SELECT ` + competitionColumns + ` FROM competitions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date ASC, time ASC NULLS FIRST"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitions: %w", err)
	}
	defer rows.Close()

	var competitions []*models.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanCompetition, err)
		}
		competitions = append(competitions, c)
	}

	return competitions, rows.Err()
}

// Update updates an existing competition
func (r *PostgresCompetitionRepository) Update(ctx context.Context, c *models.Competition) error {
	query := `
		UPDATE competitions SET
			title = $2, venue = $3, description = $4, date = $5, time = NULLIF($6, ''),
			end_date = NULLIF($7, ''), end_time = NULLIF($8, ''), entry_fee = $9::numeric,
			max_anglers = $10, published = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		c.ID, c.Title, c.Venue, c.Description, c.Date, c.Time, c.EndDate, c.EndTime,
		c.EntryFee.String(), c.MaxAnglers, c.Published,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update competition: %w", err)
	}

	return nil
}

// Delete deletes a competition and, by cascade, its leaderboard
func (r *PostgresCompetitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.Querier(ctx).Exec(ctx, "DELETE FROM competitions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete competition: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanCompetition(row pgx.Row) (*models.Competition, error) {
	c := &models.Competition{}
	var entryFee string
	err := row.Scan(
		&c.ID, &c.Title, &c.Venue, &c.Description, &c.Date, &c.Time, &c.EndDate, &c.EndTime,
		&entryFee, &c.MaxAnglers, &c.Published, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.EntryFee, err = decimal.NewFromString(entryFee)
	if err != nil {
		return nil, fmt.Errorf("invalid entry fee %q: %w", entryFee, err)
	}

	return c, nil
}
