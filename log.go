package dbenv

import (
	"log/slog"

	"github.com/giantswarm/dbenv/internal/core"
)

// SetLogger replaces the package-level logger used by dbenv. This allows
// applications to integrate dbenv logging with their own logging
// infrastructure. The provided logger should already have any desired
// attributes; dbenv will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with other dbenv operations.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
