package universe

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/guttosm/breadthpulse/internal/domain/models"
)

// staticFile is the on-disk layout of a static universe file:
//
//	universes:
//	  - key: SPY
//	    members: [AAPL, MSFT, NVDA]
//	    weights: {AAPL: 0.07}
type staticFile struct {
	Universes []models.Universe `yaml:"universes"`
}

// StaticSource serves universes from memory. It is safe for concurrent use
// because it is never modified after construction.
type StaticSource struct {
	byKey map[string]models.Universe
}

// NewStaticSource indexes universes by normalized key. A later entry with the
// same key replaces an earlier one.
func NewStaticSource(universes ...models.Universe) *StaticSource {
	s := &StaticSource{byKey: make(map[string]models.Universe, len(universes))}
	for _, u := range universes {
		k := NormalizeKey(u.Key)
		if k == "" {
			continue
		}
		u.Key = k
		u.Members = NormalizeMembers(u.Members)
		if len(u.Weights) > 0 {
			w := make(map[string]float64, len(u.Weights))
			for sym, v := range u.Weights {
				w[NormalizeKey(sym)] = v
			}
			u.Weights = w
		}
		s.byKey[k] = u
	}
	return s
}

// ParseStatic decodes a YAML universe file.
func ParseStatic(data []byte) (*StaticSource, error) {
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse universe file: %w", err)
	}
	return NewStaticSource(f.Universes...), nil
}

// LoadStatic reads and decodes a YAML universe file from path.
func LoadStatic(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}
	return ParseStatic(data)
}

// Lookup implements MemberSource.
func (s *StaticSource) Lookup(_ context.Context, key string) (models.Universe, error) {
	if u, ok := s.byKey[NormalizeKey(key)]; ok {
		return u, nil
	}
	return models.Universe{Key: key}, nil
}

// Len returns the number of universes held.
func (s *StaticSource) Len() int { return len(s.byKey) }
