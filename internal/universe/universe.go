// Package universe resolves universe keys (e.g., "SPY", "SPY+QQQ") into the
// ordered, deduplicated set of constituent symbols.
package universe

import (
	"context"
	"fmt"
	"strings"

	"github.com/guttosm/breadthpulse/internal/domain/errs"
	"github.com/guttosm/breadthpulse/internal/domain/models"
)

// MemberSource looks up a single, already normalized universe key.
//
// An unknown key is not an error: implementations return a Universe with no
// members and a nil error. Errors are reserved for failures of the backing
// store.
type MemberSource interface {
	Lookup(ctx context.Context, key string) (models.Universe, error)
}

// Resolver turns a possibly composite universe key into its members.
type Resolver interface {
	Resolve(ctx context.Context, key string) (models.Universe, error)
}

// Service is the default Resolver.
//
// Composite keys join component keys with "+" or ","; the result is the union
// of the component member lists in first-seen order. Every component must
// resolve to at least one member.
type Service struct {
	source MemberSource
}

// NewService returns a Resolver backed by source.
func NewService(source MemberSource) *Service {
	return &Service{source: source}
}

// Resolve normalizes key and returns its members.
//
// Returns:
//   - errs.ErrInvalidInput when key is blank.
//   - errs.ErrUnknownUniverse when any component key has no members.
//   - the source error, wrapped, when the backing store fails.
func (s *Service) Resolve(ctx context.Context, key string) (models.Universe, error) {
	parts := SplitKey(key)
	if len(parts) == 0 {
		return models.Universe{}, fmt.Errorf("universe key is required: %w", errs.ErrInvalidInput)
	}

	out := models.Universe{Key: strings.Join(parts, "+")}
	seen := make(map[string]struct{})
	for _, part := range parts {
		u, err := s.source.Lookup(ctx, part)
		if err != nil {
			return models.Universe{}, fmt.Errorf("resolve universe %s: %w", part, err)
		}
		members := NormalizeMembers(u.Members)
		if len(members) == 0 {
			return models.Universe{}, fmt.Errorf("universe %s: %w", part, errs.ErrUnknownUniverse)
		}
		for _, m := range members {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out.Members = append(out.Members, m)
			if w, ok := u.Weights[m]; ok {
				if out.Weights == nil {
					out.Weights = make(map[string]float64)
				}
				out.Weights[m] = w
			}
		}
	}
	return out, nil
}

// NormalizeKey trims and upper-cases a single universe key.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// SplitKey splits a composite key on "+" and "," and normalizes every
// component. Blank and repeated components are dropped.
func SplitKey(key string) []string {
	fields := strings.FieldsFunc(key, func(r rune) bool { return r == '+' || r == ',' })
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		k := NormalizeKey(f)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// NormalizeMembers upper-cases and trims symbols, dropping blanks and
// duplicates while keeping the first occurrence.
func NormalizeMembers(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// Chain queries sources in order and returns the first non-empty universe.
type Chain []MemberSource

// Lookup implements MemberSource.
func (c Chain) Lookup(ctx context.Context, key string) (models.Universe, error) {
	for _, src := range c {
		u, err := src.Lookup(ctx, key)
		if err != nil {
			return models.Universe{}, err
		}
		if len(u.Members) > 0 {
			return u, nil
		}
	}
	return models.Universe{Key: key}, nil
}
