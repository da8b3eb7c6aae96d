package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"art-gallery/internal/domain/artwork"
)

// LoadPassRepository persists load-pass summaries. It implements
// artwork.LoadRecorder.
type LoadPassRepository struct {
	db *sql.DB
}

func NewLoadPassRepository(db *sql.DB) *LoadPassRepository {
	return &LoadPassRepository{db: db}
}

// Record inserts one load-pass summary.
func (r *LoadPassRepository) Record(ctx context.Context, pass *artwork.LoadPass) error {
	query := `
		INSERT INTO load_passes (source, image_count, duration_ms, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		pass.Source,
		pass.ImageCount,
		pass.Duration.Milliseconds(),
		pass.StartedAt,
	).Scan(&pass.ID)
	if err != nil {
		return fmt.Errorf("failed to record load pass: %w", err)
	}

	return nil
}

// Recent returns the latest load passes, newest first.
func (r *LoadPassRepository) Recent(ctx context.Context, limit int) ([]artwork.LoadPass, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, source, image_count, duration_ms, started_at
		FROM load_passes
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load passes: %w", err)
	}
	defer rows.Close()

	var passes []artwork.LoadPass
	for rows.Next() {
		var p artwork.LoadPass
		var durationMS int64
		if err := rows.Scan(&p.ID, &p.Source, &p.ImageCount, &durationMS, &p.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan load pass: %w", err)
		}
		p.Duration = time.Duration(durationMS) * time.Millisecond
		passes = append(passes, p)
	}

	return passes, rows.Err()
}
