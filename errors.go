package dbenv

import "github.com/giantswarm/dbenv/internal/personality"

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrUnknownPersonality is returned by New when the explicit or
	// persisted personality name is outside the supported set.
	ErrUnknownPersonality = personality.ErrUnknown
)
