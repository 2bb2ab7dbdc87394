package dbenv

import (
	"time"

	"github.com/giantswarm/dbenv/internal/core"
	"github.com/giantswarm/dbenv/internal/personality"
)

// Default configuration values for New. Exported so callers can build
// custom configurations relative to them.
const (
	// DefaultPersonality is the engine flavor used when neither an option
	// nor a persisted marker selects one.
	DefaultPersonality = personality.Default

	// RoleName is the fixed name of the role and database every instance
	// is provisioned with.
	RoleName = core.RoleName

	// DefaultStartTimeout bounds server start plus socket readiness.
	DefaultStartTimeout = core.DefaultStartTimeout

	// DefaultStopTimeout bounds graceful and fast-mode server stops.
	DefaultStopTimeout = core.DefaultStopTimeout
)

// Compile-time assertions that the re-exported durations stay durations.
var (
	_ time.Duration = DefaultStartTimeout
	_ time.Duration = DefaultStopTimeout
)
