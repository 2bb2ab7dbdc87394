// Package tailer follows a growing log file and forwards appended content to
// a sink while a server operation is in flight. The follower is an explicit
// handle: the owner starts it, and must stop and await it before returning,
// on every exit path. Stopping a follower that already finished is a no-op.
package tailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// pollInterval is the delay between reads once the follower has caught up
// with the end of the file.
const pollInterval = 100 * time.Millisecond

// Tailer streams new content of one file to a sink until stopped.
type Tailer struct {
	path string
	file *os.File
	sink io.Writer
	log  *slog.Logger

	cancel   context.CancelFunc
	group    *errgroup.Group
	stopOnce sync.Once
}

// Start opens path and begins forwarding its content (from the beginning)
// to sink in a background goroutine. If logger is nil, slog.Default() is
// used.
func Start(ctx context.Context, path string, sink io.Writer, logger *slog.Logger) (*Tailer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}

	followCtx, cancel := context.WithCancel(ctx)
	g, gCtx := errgroup.WithContext(followCtx)

	t := &Tailer{
		path:   path,
		file:   f,
		sink:   sink,
		log:    logger,
		cancel: cancel,
		group:  g,
	}
	g.Go(func() error { return t.follow(gCtx) })
	return t, nil
}

// follow copies bytes from the file to the sink until the context is
// canceled. After cancellation one final drain pass runs, so everything the
// server wrote before the stop still reaches the sink.
func (t *Tailer) follow(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if err := t.drain(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return t.drain()
		case <-ticker.C:
		}
	}
}

// drain copies everything between the current offset and EOF to the sink.
func (t *Tailer) drain() error {
	_, err := io.Copy(t.sink, t.file)
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("tail %s: %w", t.path, err)
	}
	return nil
}

// Stop terminates the follower and waits for it to exit, then closes the
// file. Safe to call more than once and safe on a follower whose goroutine
// already returned; forwarding errors are logged, not returned, since a
// broken tail must never mask the outcome of the operation it shadowed.
func (t *Tailer) Stop() {
	t.stopOnce.Do(func() {
		t.cancel()
		if err := t.group.Wait(); err != nil {
			t.log.Debug("log tail ended with error", "path", t.path, "error", err)
		}
		if err := t.file.Close(); err != nil {
			t.log.Debug("close tailed log", "path", t.path, "error", err)
		}
	})
}
