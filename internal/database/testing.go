package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/tightlines/internal/config"
)

// TestConfigEnv names the config file used by database-backed tests
const TestConfigEnv = "TIGHTLINES_TEST_CONFIG"

// SetupTestDB connects to the test database, skipping the test when none is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("Integration test - set %s to a config file with a test database", TestConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}

// TruncateTestTables empties the domain tables between tests
func TruncateTestTables(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.pool.Exec(ctx, "TRUNCATE leaderboard_entries, competitions, anglers CASCADE"); err != nil {
		t.Fatalf("failed to truncate test tables: %v", err)
	}
}
