package dbenv

import (
	"context"

	"github.com/giantswarm/dbenv/internal/core"
)

// Env is a handle on one instance directory. All lifecycle operations go
// through it. The personality is resolved once at construction and never
// changes for the life of the value.
//
// Env is not safe for concurrent use from multiple goroutines.
type Env struct {
	inst *core.Instance
}

// New creates an Env from the given options. The personality is resolved
// here: an explicit WithPersonality wins, then the marker persisted in the
// instance directory, then the default. An unrecognized personality name,
// explicit or persisted, is a fatal configuration error; no state is
// touched.
func New(opts ...Option) (*Env, error) {
	cfg := envConfig{workDir: "."}
	for _, opt := range opts {
		opt(&cfg)
	}

	pers, err := core.ResolvePersonality(cfg.workDir, cfg.personalityName)
	if err != nil {
		return nil, err
	}

	inst, err := core.New(core.Config{
		WorkDir:      cfg.workDir,
		Personality:  pers,
		StartTimeout: cfg.startTimeout,
		StopTimeout:  cfg.stopTimeout,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, err
	}
	return &Env{inst: inst}, nil
}

// Dir returns the absolute instance directory path.
func (e *Env) Dir() string { return e.inst.Root() }

// Personality returns the resolved engine flavor name.
func (e *Env) Personality() string { return e.inst.Personality().Name }

// Exists reports whether the instance directory exists, i.e. whether Setup
// has run.
func (e *Env) Exists() bool { return e.inst.Exists() }

// Setup creates a ready-to-start instance: cluster initialization, socket
// rebinding, role and database provisioning. Idempotent; when the instance
// already exists it returns success without touching anything. The server
// is left stopped.
func (e *Env) Setup(ctx context.Context) error { return e.inst.Setup(ctx) }

// Start brings the server up and waits until it accepts connections on the
// instance socket. Extra arguments are passed through to the control
// utility verbatim.
func (e *Env) Start(ctx context.Context, extra ...string) error {
	return e.inst.ControlAction(ctx, "start", extra...)
}

// Stop shuts the server down and waits for full shutdown. Extra arguments
// are passed through to the control utility verbatim.
func (e *Env) Stop(ctx context.Context, extra ...string) error {
	return e.inst.ControlAction(ctx, "stop", extra...)
}

// Status invokes the control utility's status verb, forwarding its output
// to the caller's stdio.
func (e *Env) Status(ctx context.Context, extra ...string) error {
	return e.inst.ControlAction(ctx, "status", extra...)
}

// IsRunning probes the server state. All failure modes report false.
func (e *Env) IsRunning(ctx context.Context) bool { return e.inst.IsRunning(ctx) }

// Connect opens an interactive client session, starting the server first if
// needed. On success the current process is replaced by the client shell
// and Connect never returns.
func (e *Env) Connect(ctx context.Context, extra ...string) error {
	return e.inst.Connect(ctx, extra...)
}

// URL returns the instance's connection string with the instance directory
// as the UNIX-socket host component. Pure; works whether or not the server
// is running.
func (e *Env) URL() string { return e.inst.URL() }

// Remove deletes the instance directory wholesale, from any state. A
// missing directory is a success no-op.
func (e *Env) Remove(ctx context.Context) error { return e.inst.Clean(ctx) }
