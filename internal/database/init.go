package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/config"
)

// requiredTables must exist before the API can serve traffic
var requiredTables = []string{"competitions", "leaderboard_entries", "anglers"}

// Initialize creates a database connection pool and verifies the schema is in place
func Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, table := range requiredTables {
		var exists bool
		err := db.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			db.Close()
			return nil, fmt.Errorf("table %s not found; apply the schema migrations before starting", table)
		}
	}

	// schema_migrations is written by the migrate CLI; absence only means it was never run through it
	var migrationCount int
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&migrationCount); err == nil && migrationCount == 0 {
		logger.Warn("No migrations recorded in schema_migrations")
	}

	return db, nil
}
