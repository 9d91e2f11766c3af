package profile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a catalog file holds no profiles.
var ErrEmptyCatalog = errors.New("profile catalog is empty")

// Random is the subset of math/rand/v2 used for catalog enhancement.
type Random interface {
	IntN(n int) int
}

type catalogFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadCatalog reads a YAML catalog of the form `profiles: [...]` and validates
// every entry.
func LoadCatalog(path string) ([]Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(file.Profiles) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[int]struct{}, len(file.Profiles))
	for _, p := range file.Profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if p.ID == DiagnosticProfileID {
			return nil, fmt.Errorf("profile id %d is reserved for the diagnostic card", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return file.Profiles, nil
}

// Validate checks the fields a swipe card cannot render without.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile %d: name is required", p.ID)
	}
	if len(p.ResponseMessages) == 0 {
		return fmt.Errorf("profile %d: at least one response message is required", p.ID)
	}
	return nil
}

// Enhance gives every profile between two and four images drawn from pool,
// leaving the input untouched. Profiles that already carry images keep them.
func Enhance(profiles []Profile, pool []string, rng Random) []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		p.ResponseMessages = append([]string(nil), p.ResponseMessages...)
		if len(p.Images) > 0 || len(pool) == 0 {
			p.Images = append([]string(nil), p.Images...)
			out[i] = p
			continue
		}

		count := rng.IntN(3) + 2
		images := make([]string, count)
		for j := range images {
			images[j] = pool[rng.IntN(len(pool))]
		}
		p.Images = images
		out[i] = p
	}
	return out
}

// Catalog assembles the card catalog: the diagnostic profile first, followed
// by the enhanced base profiles. Base entries using the reserved id are dropped.
func Catalog(base []Profile, rng Random) []Profile {
	kept := make([]Profile, 0, len(base))
	for _, p := range base {
		if p.ID == DiagnosticProfileID {
			continue
		}
		kept = append(kept, p)
	}
	enhanced := Enhance(kept, UploadedImages, rng)
	return append([]Profile{DiagnosticProfile()}, enhanced...)
}
