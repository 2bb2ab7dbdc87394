package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryInterval is the interval between consecutive attempts to acquire
// the instance directory lock.
const lockRetryInterval = 50 * time.Millisecond

// acquireLock takes the advisory lock beside the instance directory. It is
// best effort against concurrent invocations of this tool only; nothing
// else observes the lock, and single-process behavior is unchanged by it.
func acquireLock(ctx context.Context, lockPath string) (*flock.Flock, error) {
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock %s: %w", lockPath, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquire instance lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquire instance lock %s: lock not acquired", lockPath)
	}
	return fl, nil
}

// releaseLock releases the advisory lock. The lock file is intentionally
// left on disk: removing it could invalidate a lock concurrently acquired
// by another process. Best-effort cleanup; errors are logged at debug level.
func releaseLock(logger *slog.Logger, fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		logger.Debug("release instance lock", "path", fl.Path(), "error", err)
	}
}
