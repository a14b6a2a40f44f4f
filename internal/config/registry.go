package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultTemplate is the render template used when a profile does not name one
const DefaultTemplate = "Resume"

// Profile maps a candidate slug to the resume name used for canonical resume lookup
type Profile struct {
	Resume   string `yaml:"resume" validate:"required"`
	Template string `yaml:"template,omitempty"`
}

// Registry is the set of known candidate profiles keyed by slug
type Registry struct {
	Profiles map[string]Profile `yaml:"profiles" validate:"min=1,dive,keys,required,endkeys"`
}

// LoadRegistry reads a profile registry YAML file.
// Profiles without a template get DefaultTemplate; slugs are lowercased.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("registry path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}

	return ParseRegistry(data)
}

// ParseRegistry decodes and validates registry YAML
func ParseRegistry(data []byte) (*Registry, error) {
	var raw Registry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse registry YAML: %w", err)
	}

	reg := &Registry{Profiles: make(map[string]Profile, len(raw.Profiles))}
	for slug, p := range raw.Profiles {
		p.Resume = strings.TrimSpace(p.Resume)
		if strings.TrimSpace(p.Template) == "" {
			p.Template = DefaultTemplate
		}
		reg.Profiles[strings.ToLower(strings.TrimSpace(slug))] = p
	}

	validate := validator.New()
	if err := validate.Struct(reg); err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}
	for _, slug := range reg.Slugs() {
		if err := validate.Struct(reg.Profiles[slug]); err != nil {
			return nil, fmt.Errorf("invalid registry: %s: %w", slug, err)
		}
	}

	return reg, nil
}

// Lookup finds a profile by slug, case-insensitively
func (r *Registry) Lookup(slug string) (Profile, error) {
	p, ok := r.Profiles[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (known: %s)", slug, strings.Join(r.Slugs(), ", "))
	}
	return p, nil
}

// Slugs returns the registered slugs in sorted order
func (r *Registry) Slugs() []string {
	out := make([]string, 0, len(r.Profiles))
	for slug := range r.Profiles {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}
