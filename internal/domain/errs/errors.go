// Package errs defines the error taxonomy shared by the breadth engine.
//
// Every failure surfaced by the orchestrator wraps exactly one of the
// sentinels below, so callers can branch with errors.Is and the transport
// layer can map a failure to a status category with KindOf.
package errs

import "errors"

var (
	// ErrInvalidInput is a caller error: blank universe key, unknown metric,
	// unsupported granularity or malformed segment boundaries.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownUniverse means the universe key resolved to no members.
	ErrUnknownUniverse = errors.New("unknown universe")

	// ErrNoDataAvailable means the price window query succeeded but returned no rows.
	ErrNoDataAvailable = errors.New("no data available")

	// ErrDataSourceUnavailable wraps infrastructure failures of the price source,
	// including fetch timeouts.
	ErrDataSourceUnavailable = errors.New("data source unavailable")

	// ErrInvariantViolation signals an internal consistency check failure.
	// It is always a bug and fails only the current request.
	ErrInvariantViolation = errors.New("calculation invariant violation")
)

// Kind groups errors by who is expected to act on them.
type Kind string

const (
	KindCaller    Kind = "caller"
	KindTransient Kind = "transient"
	KindInternal  Kind = "internal"
)

// KindOf classifies err. Unrecognised errors are internal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownUniverse):
		return KindCaller
	case errors.Is(err, ErrNoDataAvailable), errors.Is(err, ErrDataSourceUnavailable):
		return KindTransient
	default:
		return KindInternal
	}
}

// Code returns a stable machine-readable code for err, used in error bodies.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnknownUniverse):
		return "unknown_universe"
	case errors.Is(err, ErrNoDataAvailable):
		return "no_data"
	case errors.Is(err, ErrDataSourceUnavailable):
		return "data_source_unavailable"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	default:
		return "internal"
	}
}
