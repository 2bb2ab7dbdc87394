package dbenv

import (
	"fmt"
	"log/slog"
	"time"
)

// envConfig holds the configuration assembled by Options for New.
type envConfig struct {
	workDir         string
	personalityName string
	startTimeout    time.Duration
	stopTimeout     time.Duration
	logger          *slog.Logger
}

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive(name string, v time.Duration) {
	if v <= 0 {
		panic(fmt.Sprintf("dbenv: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("dbenv: %s must not be empty", name))
	}
}

// Option configures an Env during construction via New.
//
// Several With* functions panic on invalid input (empty paths, non-positive
// durations). These panics are intentional: option values are typically
// compile-time constants, so an invalid value indicates a programmer error
// rather than a runtime condition. The pattern mirrors [regexp.MustCompile]:
// fail fast during initialization instead of returning errors that would be
// universally fatal anyway.
type Option func(*envConfig)

// WithWorkDir sets the directory the instance directory is rooted at.
// Defaults to the current working directory. Panics if dir is empty.
func WithWorkDir(dir string) Option {
	requireNonEmpty("work directory", dir)
	return func(c *envConfig) {
		c.workDir = dir
	}
}

// WithPersonality selects the engine flavor by name, overriding both the
// persisted marker and the default. Validation happens in New, where an
// unknown name fails with a diagnostic naming the valid choices. Panics if
// name is empty; omit the option to use the marker or default instead.
func WithPersonality(name string) Option {
	requireNonEmpty("personality name", name)
	return func(c *envConfig) {
		c.personalityName = name
	}
}

// WithStartTimeout bounds server start plus socket readiness. The control
// utility does the real waiting; this is the safety net against a wedged
// cluster.
//
// Default: 60 seconds.
//
// Panics if d <= 0.
func WithStartTimeout(d time.Duration) Option {
	requirePositive("start timeout", d)
	return func(c *envConfig) {
		c.startTimeout = d
	}
}

// WithStopTimeout bounds graceful and fast-mode server stops.
//
// Default: 30 seconds.
//
// Panics if d <= 0.
func WithStopTimeout(d time.Duration) Option {
	requirePositive("stop timeout", d)
	return func(c *envConfig) {
		c.stopTimeout = d
	}
}

// WithLogger sets the logger for this Env only, overriding the package
// logger. Panics if l is nil; use SetLogger(nil) to reset the package
// default instead.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("dbenv: logger must not be nil")
	}
	return func(c *envConfig) {
		c.logger = l
	}
}
