package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfAndCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
		code string
	}{
		{"invalid input", fmt.Errorf("metric %q: %w", "foo", ErrInvalidInput), KindCaller, "invalid_input"},
		{"unknown universe", fmt.Errorf("resolve: %w", ErrUnknownUniverse), KindCaller, "unknown_universe"},
		{"no data", ErrNoDataAvailable, KindTransient, "no_data"},
		{"source down", fmt.Errorf("fetch: %w", ErrDataSourceUnavailable), KindTransient, "data_source_unavailable"},
		{"invariant", ErrInvariantViolation, KindInternal, "invariant_violation"},
		{"other", errors.New("boom"), KindInternal, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.kind {
				t.Fatalf("KindOf=%q, want %q", got, tc.kind)
			}
			if got := Code(tc.err); got != tc.code {
				t.Fatalf("Code=%q, want %q", got, tc.code)
			}
		})
	}
}
