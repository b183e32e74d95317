package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load returns the profile stored at path, or the seed when path is empty.
func Load(path string) (*Profile, error) {
	if strings.TrimSpace(path) == "" {
		return Seed(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes a YAML profile. Scripted answers and suggestions missing from
// the file are taken from the seed.
func LoadFile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML profile document.
func Parse(raw []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("profile name is required")
	}

	seed := Seed()
	p.Answers = p.Answers.withDefaults(seed.Answers)
	if len(p.Suggestions) == 0 {
		p.Suggestions = append([]string(nil), seed.Suggestions...)
	}
	return &p, nil
}
