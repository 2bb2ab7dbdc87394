package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/giantswarm/dbenv/internal/execx"
	"github.com/giantswarm/dbenv/internal/personality"
	"github.com/giantswarm/dbenv/internal/provision"
)

// RoleName is the fixed name of the role and database created during
// initialization. The role owns the database and carries superuser, login
// and replication privileges; access control is the filesystem permission
// on the socket directory, not a password.
const RoleName = "lite"

// Port is the server port number. The server never listens on TCP; the
// port only selects the socket filename inside the instance directory.
const Port = 5432

// Fixed names inside (and beside) the instance directory.
const (
	// InstanceDirName is the instance directory created under the
	// invocation working directory. Its existence is the sole signal that
	// setup has run.
	InstanceDirName = "var"
	// clusterDirName is the cluster data subdirectory.
	clusterDirName = "db"
	// logFileName is the server log file.
	logFileName = "log"
	// lockSuffix names the advisory lock file placed beside the instance
	// directory (never inside it, so directory existence stays meaningful).
	lockSuffix = ".lock"
)

// Config configures an Instance.
type Config struct {
	// WorkDir is the directory the instance directory is rooted at,
	// typically the invocation working directory. Must not be empty.
	WorkDir string
	// Personality is the resolved engine flavor. Must be resolved, never a
	// zero value.
	Personality personality.Personality
	// StartTimeout bounds server start plus socket readiness.
	StartTimeout time.Duration
	// StopTimeout bounds graceful and fast-mode server stops.
	StopTimeout time.Duration
	// Logger is optional; the package logger is used when nil.
	Logger *slog.Logger
	// Provision overrides the role/database creation step. Nil means the
	// real provisioning batch over the instance socket. Tests substitute
	// this to exercise the lifecycle without a live server.
	Provision ProvisionFunc
	// Exec overrides the process-image replacement used to enter the
	// interactive client session. Nil means the real execve. Tests
	// substitute this because the real call never returns.
	Exec ExecFunc
}

// ProvisionFunc creates the dedicated role and database against the cluster
// listening on socketDir.
type ProvisionFunc func(ctx context.Context, socketDir, name string, logger *slog.Logger) error

// ExecFunc replaces the current process image with the named program. argv
// follows execve conventions: its first element is the program name.
type ExecFunc func(name string, argv []string) error

// Instance owns one on-disk instance directory and mediates all lifecycle
// actions against it. The value is immutable after construction: the
// personality and paths are fixed for the process, matching the
// resolve-once contract.
//
// Instance is not safe for concurrent use from multiple goroutines, and two
// processes initializing the same directory are only best-effort serialized
// by an advisory lock.
type Instance struct {
	root         string // absolute instance directory path
	pers         personality.Personality
	startTimeout time.Duration
	stopTimeout  time.Duration
	provision    ProvisionFunc
	exec         ExecFunc
	log          *slog.Logger
}

// New creates an Instance rooted at cfg.WorkDir. It performs no I/O; the
// instance directory may or may not exist yet.
func New(cfg Config) (*Instance, error) {
	if cfg.WorkDir == "" {
		return nil, fmt.Errorf("work dir must not be empty")
	}
	if cfg.Personality.Name == "" {
		return nil, fmt.Errorf("personality must be resolved")
	}
	root, err := filepath.Abs(filepath.Join(cfg.WorkDir, InstanceDirName))
	if err != nil {
		return nil, fmt.Errorf("resolve instance directory: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	startTimeout := cfg.StartTimeout
	if startTimeout <= 0 {
		startTimeout = DefaultStartTimeout
	}
	stopTimeout := cfg.StopTimeout
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	prov := cfg.Provision
	if prov == nil {
		prov = provision.CreateRoleAndDatabase
	}
	execFn := cfg.Exec
	if execFn == nil {
		execFn = execx.Exec
	}

	return &Instance{
		root:         root,
		pers:         cfg.Personality,
		startTimeout: startTimeout,
		stopTimeout:  stopTimeout,
		provision:    prov,
		exec:         execFn,
		log:          log,
	}, nil
}

// Default timeouts for server start readiness and stop. The control utility
// does the real waiting; these exist so library callers never hang on a
// wedged cluster.
const (
	DefaultStartTimeout = 60 * time.Second
	DefaultStopTimeout  = 30 * time.Second
)

// Root returns the absolute instance directory path.
func (i *Instance) Root() string { return i.root }

// Personality returns the resolved engine personality.
func (i *Instance) Personality() personality.Personality { return i.pers }

// ClusterDir returns the cluster data subdirectory path.
func (i *Instance) ClusterDir() string { return filepath.Join(i.root, clusterDirName) }

// LogPath returns the server log file path.
func (i *Instance) LogPath() string { return filepath.Join(i.root, logFileName) }

// MarkerPath returns the persisted personality marker file path.
func (i *Instance) MarkerPath() string { return filepath.Join(i.root, personality.MarkerName) }

// ConfigPath returns the engine config file path inside the cluster directory.
func (i *Instance) ConfigPath() string {
	return filepath.Join(i.ClusterDir(), i.pers.ConfigFile)
}

// lockPath returns the advisory lock file path beside the instance directory.
func (i *Instance) lockPath() string { return i.root + lockSuffix }

// socketPath returns the path of the server's listening socket.
func (i *Instance) socketPath() string {
	return filepath.Join(i.root, fmt.Sprintf(".s.PGSQL.%d", Port))
}

// URL returns the fixed-format connection string for the instance, with the
// instance directory embedded as a UNIX-socket host component. Pure; no
// server state is consulted.
func (i *Instance) URL() string {
	return fmt.Sprintf("postgres://%s@[%s]/%s", RoleName, i.root, RoleName)
}
