package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/guttosm/breadthpulse/internal/domain/errs"
)

// ValidateBoundaries checks that boundaries are finite and strictly increasing.
func ValidateBoundaries(boundaries []float64) error {
	if len(boundaries) == 0 {
		return fmt.Errorf("at least one segment boundary is required: %w", errs.ErrInvalidInput)
	}
	for i, b := range boundaries {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Errorf("boundary %d is not finite: %w", i, errs.ErrInvalidInput)
		}
		if i > 0 && b <= boundaries[i-1] {
			return fmt.Errorf("boundaries must be strictly increasing (%v after %v): %w", b, boundaries[i-1], errs.ErrInvalidInput)
		}
	}
	return nil
}

// Bin returns the segment index of v for boundaries b0 < b1 < ... < bn.
//
// Segments are (-inf, b0), [b0, b1), ..., [bn, +inf), indexed 0..n+1.
// Segments are lower-inclusive: a value equal to a boundary falls into the
// segment that starts at that boundary.
func Bin(v float64, boundaries []float64) int {
	return sort.Search(len(boundaries), func(i int) bool { return boundaries[i] > v })
}
