// Package db provides PostgreSQL access for canonical resumes and tailoring run history.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables this package uses if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// CreateRun records the start of a tailoring run under the caller's run ID
func (db *DB) CreateRun(ctx context.Context, runID uuid.UUID, profile, company string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO tailoring_runs (id, profile, company, status)
		 VALUES ($1, $2, $3, $4)`,
		runID, profile, company, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks a tailoring run as finished with the given status
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status, errMessage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE tailoring_runs SET status = $1, error = NULLIF($2, ''), completed_at = NOW() WHERE id = $3`,
		status, errMessage, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET content = $3, text_content = NULL, created_at = NOW()`,
		runID, step, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact such as a prompt or a raw model response
func (db *DB) SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, text_content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET text_content = $3, content = NULL, created_at = NOW()`,
		runID, step, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetTextArtifact retrieves a text artifact by run ID and step
func (db *DB) GetTextArtifact(ctx context.Context, runID uuid.UUID, step string) (string, error) {
	var text *string
	err := db.pool.QueryRow(ctx,
		`SELECT text_content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get text artifact %s: %w", step, err)
	}
	if text == nil {
		return "", nil
	}
	return *text, nil
}

// HasArtifact reports whether a run stored an artifact for step, JSON or text
func (db *DB) HasArtifact(ctx context.Context, runID uuid.UUID, step string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM run_artifacts WHERE run_id = $1 AND step = $2)`,
		runID, step,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check artifact %s: %w", step, err)
	}
	return exists, nil
}

// GetRun retrieves a tailoring run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	var errMessage *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile, company, status, error, created_at, completed_at
		 FROM tailoring_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Profile, &run.Company, &run.Status, &errMessage, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if errMessage != nil {
		run.Error = *errMessage
	}
	return &run, nil
}

// ListRuns retrieves recent tailoring runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile, company, status, COALESCE(error, ''), created_at, completed_at
		 FROM tailoring_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Profile, &run.Company, &run.Status, &run.Error, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
