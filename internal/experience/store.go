package experience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Store loads the canonical resume for a profile and stack variant.
// Implementations fall back to the profile's base resume when no variant-specific record exists.
type Store interface {
	Load(ctx context.Context, profileName string, variant types.ResumeVariant) (*types.CanonicalResume, error)
}

// FileStore reads canonical resumes from a directory laid out as
// "<Dir>/<Name> <Variant>.json" or "<Dir>/<Name>/<Name> <Variant>.json",
// with "<Name>.json" as the base resume.
type FileStore struct {
	Dir    string
	Logger zerolog.Logger
}

// NewFileStore creates a FileStore rooted at dir
func NewFileStore(dir string, logger zerolog.Logger) *FileStore {
	return &FileStore{Dir: dir, Logger: logger}
}

// Load implements Store
func (s *FileStore) Load(ctx context.Context, profileName string, variant types.ResumeVariant) (*types.CanonicalResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	variantPaths := s.VariantPaths(profileName, variant)
	basePaths := s.BasePaths(profileName)

	for _, path := range variantPaths {
		if fileExists(path) {
			s.Logger.Debug().Str("path", path).Msg("loading canonical resume")
			return LoadCanonicalResume(path)
		}
	}

	for _, path := range basePaths {
		if fileExists(path) {
			s.Logger.Warn().
				Str("profile", profileName).
				Str("variant", string(variant)).
				Str("path", path).
				Msg("variant resume not found, using base profile resume")
			return LoadCanonicalResume(path)
		}
	}

	return nil, &NotFoundError{
		Profile: profileName,
		Variant: string(variant),
		Tried:   append(variantPaths, basePaths...),
	}
}

// VariantPaths lists the candidate files for a variant, in lookup order
func (s *FileStore) VariantPaths(profileName string, variant types.ResumeVariant) []string {
	names := []string{fmt.Sprintf("%s %s.json", profileName, variant)}
	// "C#.NET" is also stored as "C.NET" on file systems that dislike '#'
	if stripped := strings.ReplaceAll(string(variant), "#", ""); stripped != string(variant) {
		names = append(names, fmt.Sprintf("%s %s.json", profileName, stripped))
	}

	var paths []string
	for _, name := range names {
		paths = append(paths,
			filepath.Join(s.Dir, name),
			filepath.Join(s.Dir, profileName, name),
		)
	}
	return paths
}

// BasePaths lists the candidate files for the profile's base resume
func (s *FileStore) BasePaths(profileName string) []string {
	return []string{
		filepath.Join(s.Dir, profileName+".json"),
		filepath.Join(s.Dir, profileName, profileName+".json"),
	}
}

// LoadCanonicalResume reads and validates a canonical resume file
func LoadCanonicalResume(path string) (*types.CanonicalResume, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}

	resume, err := DecodeCanonicalResume(content)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Message = fmt.Sprintf("%s: %s", path, loadErr.Message)
		}
		return nil, err
	}
	return resume, nil
}

// DecodeCanonicalResume checks a canonical resume document against its schema,
// decodes it, validates the struct and normalizes it
func DecodeCanonicalResume(content []byte) (*types.CanonicalResume, error) {
	if err := schemas.Validate(schemas.CanonicalResume, content); err != nil {
		return nil, &LoadError{Message: "canonical resume does not match schema", Cause: err}
	}

	var resume types.CanonicalResume
	if err := json.Unmarshal(content, &resume); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}

	Normalize(&resume)

	if err := resume.Validate(); err != nil {
		return nil, &LoadError{Message: "invalid canonical resume", Cause: err}
	}
	return &resume, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
