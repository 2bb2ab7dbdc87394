package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/giantswarm/dbenv/internal/execx"
	"github.com/giantswarm/dbenv/internal/fileutil"
	"github.com/giantswarm/dbenv/internal/personality"
	"github.com/giantswarm/dbenv/internal/pgconf"
	"github.com/giantswarm/dbenv/internal/tailer"
)

// Exists reports whether the instance directory exists. Its existence is
// the sole signal that setup has run.
func (i *Instance) Exists() bool {
	info, err := os.Stat(i.root)
	return err == nil && info.IsDir()
}

// Setup creates a ready-to-start instance. Idempotent: when the instance
// directory already exists it emits an informational message and returns
// success without touching anything.
func (i *Instance) Setup(ctx context.Context) error {
	if i.Exists() {
		i.log.Info("instance directory already exists, nothing to do", "dir", i.root)
		return nil
	}
	return i.initialize(ctx)
}

// initialize creates the cluster, rebinds it to the instance socket,
// provisions the dedicated role and database, and leaves the server
// stopped. If anything fails after the server comes up, the deferred
// teardown still performs a fast-mode stop and terminates the log follower
// before the original failure propagates.
func (i *Instance) initialize(ctx context.Context) (retErr error) {
	fl, err := acquireLock(ctx, i.lockPath())
	if err != nil {
		return err
	}
	defer releaseLock(i.log, fl)

	// Re-check under the lock: a concurrent invocation may have finished
	// initializing while we waited.
	if i.Exists() {
		i.log.Info("instance directory already exists, nothing to do", "dir", i.root)
		return nil
	}

	if err := fileutil.EnsureDir(i.root); err != nil {
		return err
	}

	i.log.Info("initializing cluster", "dir", i.ClusterDir(), "personality", i.pers.Name)
	if err := execx.Run(ctx, i.pers.InitCommand,
		"-D", i.ClusterDir(), "--auth=trust", "--encoding=UTF8", "--locale=C.UTF-8"); err != nil {
		return fmt.Errorf("initialize cluster: %w", err)
	}

	changed, err := pgconf.Rewrite(i.ConfigPath(), i.root)
	if err != nil {
		return fmt.Errorf("rebind config to socket directory: %w", err)
	}
	i.log.Debug("config directives rewritten", "file", i.ConfigPath(), "changed", changed)

	if err := personality.Persist(i.MarkerPath(), i.pers); err != nil {
		return err
	}

	if err := createEmptyFile(i.LogPath()); err != nil {
		return fmt.Errorf("create server log: %w", err)
	}
	tl, err := tailer.Start(ctx, i.LogPath(), os.Stderr, i.log)
	if err != nil {
		return err
	}

	// From here on every exit path, success or failure, stops anything the
	// server side has running and awaits the log follower.
	serverUp := false
	defer func() {
		if serverUp {
			i.fastStop(ctx)
		}
		tl.Stop()
	}()

	if err := i.start(ctx); err != nil {
		return err
	}
	serverUp = true

	if err := i.provision(ctx, i.root, RoleName, i.log); err != nil {
		return fmt.Errorf("provision role and database: %w", err)
	}

	if err := i.stop(ctx); err != nil {
		return err
	}
	serverUp = false

	i.log.Info("instance initialized", "dir", i.root, "personality", i.pers.Name)
	return nil
}

// createEmptyFile creates (or truncates) the file at path.
func createEmptyFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Clean removes the instance directory wholesale, returning the instance to
// the absent state. A missing directory is a success no-op.
func (i *Instance) Clean(ctx context.Context) error {
	if !i.Exists() {
		i.log.Info("no instance directory, nothing to remove", "dir", i.root)
		return nil
	}
	i.log.Info("removing instance directory", "dir", i.root)

	fl, err := acquireLock(ctx, i.lockPath())
	if err != nil {
		return err
	}
	defer releaseLock(i.log, fl)

	if err := os.RemoveAll(i.root); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove instance directory: %w", err)
	}
	return nil
}
