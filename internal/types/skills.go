// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SkillGroup is a named list of skills. An empty Name marks an uncategorized list.
type SkillGroup struct {
	Name   string
	Skills []string
}

// SkillGroups keeps skill categories in document order.
// It decodes from a {"Category": [...]} object, a flat array, or a flat
// "A | B | C" string, and encodes back to the object form (or an array when uncategorized).
type SkillGroups []SkillGroup

// Lookup returns the skills for a category name
func (g SkillGroups) Lookup(name string) ([]string, bool) {
	for _, group := range g {
		if group.Name == name {
			return group.Skills, true
		}
	}
	return nil, false
}

// Count returns the total number of skills across all groups
func (g SkillGroups) Count() int {
	total := 0
	for _, group := range g {
		total += len(group.Skills)
	}
	return total
}

// Uncategorized reports whether the groups hold a single flat list
func (g SkillGroups) Uncategorized() bool {
	return len(g) == 1 && g[0].Name == ""
}

// UnmarshalJSON implements json.Unmarshaler
func (g *SkillGroups) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*g = nil
		return nil
	}

	switch trimmed[0] {
	case '"':
		var flat string
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return err
		}
		*g = SkillGroups{{Skills: splitFlatSkills(flat)}}
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*g = SkillGroups{{Skills: list}}
		return nil
	case '{':
		return g.decodeObject(trimmed)
	default:
		return fmt.Errorf("skills: unsupported JSON value %q", string(trimmed[:1]))
	}
}

func (g *SkillGroups) decodeObject(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}

	groups := SkillGroups{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("skills: expected category name, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("skills: category %q: %w", name, err)
		}

		var skills []string
		if err := json.Unmarshal(raw, &skills); err != nil {
			// Some models emit "Category": "A, B, C"
			var flat string
			if strErr := json.Unmarshal(raw, &flat); strErr != nil {
				return fmt.Errorf("skills: category %q: %w", name, err)
			}
			skills = splitFlatSkills(flat)
		}
		groups = append(groups, SkillGroup{Name: name, Skills: skills})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = groups
	return nil
}

// MarshalJSON implements json.Marshaler
func (g SkillGroups) MarshalJSON() ([]byte, error) {
	if g.Uncategorized() {
		skills := g[0].Skills
		if skills == nil {
			skills = []string{}
		}
		return json.Marshal(skills)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Name)
		if err != nil {
			return nil, err
		}
		skills := group.Skills
		if skills == nil {
			skills = []string{}
		}
		value, err := json.Marshal(skills)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// splitFlatSkills splits "A | B | C" or "A, B, C" into entries
func splitFlatSkills(flat string) []string {
	sep := ","
	if strings.Contains(flat, "|") {
		sep = "|"
	}
	parts := strings.Split(flat, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// EducationList decodes either an array of education entries or a single object
type EducationList []Education

// UnmarshalJSON implements json.Unmarshaler
func (l *EducationList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '{' {
		var single Education
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*l = EducationList{single}
		return nil
	}
	var list []Education
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*l = list
	return nil
}
