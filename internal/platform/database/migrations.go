package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// MigrationManager handles database migrations
type MigrationManager struct {
	db *sql.DB
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

// EnsureMigrationsTable creates the migrations tracking table if it doesn't exist
func (m *MigrationManager) EnsureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		description VARCHAR(255),
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	_, err := m.db.Exec(query)
	return err
}

// GetAppliedMigrations returns a list of already applied migrations
func (m *MigrationManager) GetAppliedMigrations() ([]string, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}

	return versions, rows.Err()
}

// ApplyMigration applies a single migration and records it
func (m *MigrationManager) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Apply the migration SQL
	if _, err := tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
	}

	// Record the migration as applied
	_, err = tx.Exec(
		"INSERT INTO schema_migrations (version, description) VALUES ($1, $2)",
		migration.Version,
		migration.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
	}

	return tx.Commit()
}

// RunMigrations applies all pending migrations
func RunMigrations(db *sql.DB) error {
	manager := NewMigrationManager(db)

	if err := manager.EnsureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := allMigrations()
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	applied, err := manager.GetAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	appliedMap := make(map[string]bool)
	for _, version := range applied {
		appliedMap[version] = true
	}

	for _, migration := range migrations {
		if !appliedMap[migration.Version] {
			if err := manager.ApplyMigration(migration); err != nil {
				return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
			}
		}
	}

	return nil
}

// allMigrations returns the embedded schema history.
func allMigrations() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "load pass audit log",
			SQL: `
-- Audit log of collection rebuilds: which source strategy won, how many
-- images survived, and how long the pass took.
CREATE TABLE IF NOT EXISTS load_passes (
    id SERIAL PRIMARY KEY,
    source VARCHAR(50) NOT NULL,
    image_count INTEGER NOT NULL CHECK (image_count >= 0),
    duration_ms BIGINT NOT NULL CHECK (duration_ms >= 0),
    started_at TIMESTAMP WITH TIME ZONE NOT NULL,
    recorded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_load_passes_started_at ON load_passes(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_load_passes_source ON load_passes(source);
`,
		},
	}
}
