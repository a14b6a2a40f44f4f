package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/experience"
	"github.com/jonathan/resume-tailor/internal/types"
)

// baseVariant is the variant key of a profile's base resume
const baseVariant = ""

// GetCanonicalRecord returns the stored record for a profile and variant, or nil if absent
func (db *DB) GetCanonicalRecord(ctx context.Context, profile, variant string) (*CanonicalRecord, error) {
	var rec CanonicalRecord
	err := db.pool.QueryRow(ctx,
		`SELECT profile, variant, content, updated_at
		 FROM canonical_resumes WHERE profile = $1 AND variant = $2`,
		profile, variant,
	).Scan(&rec.Profile, &rec.Variant, &rec.Content, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get canonical resume: %w", err)
	}
	return &rec, nil
}

// UpsertCanonicalResume stores a canonical resume. An empty variant stores the base resume.
func (db *DB) UpsertCanonicalResume(ctx context.Context, profile string, variant types.ResumeVariant, content []byte) error {
	if _, err := experience.DecodeCanonicalResume(content); err != nil {
		return err
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO canonical_resumes (profile, variant, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (profile, variant) DO UPDATE SET content = $3, updated_at = NOW()`,
		profile, string(variant), content,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert canonical resume: %w", err)
	}
	return nil
}

// Load implements experience.Store. The base resume (empty variant) is used when the variant has no row.
func (db *DB) Load(ctx context.Context, profileName string, variant types.ResumeVariant) (*types.CanonicalResume, error) {
	for _, key := range []string{string(variant), baseVariant} {
		rec, err := db.GetCanonicalRecord(ctx, profileName, key)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return experience.DecodeCanonicalResume(rec.Content)
		}
	}
	return nil, &experience.NotFoundError{Profile: profileName, Variant: string(variant)}
}

var _ experience.Store = (*DB)(nil)
