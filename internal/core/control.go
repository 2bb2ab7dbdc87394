package core

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/giantswarm/dbenv/internal/execx"
)

// runningMarker is the text the control utility prints when the server is
// up. Anything else, including the non-zero exit the utility uses for
// "no server running", means not running, never an error.
const runningMarker = "server is running"

// socketPollInterval is the interval between consecutive socket dial
// attempts while waiting for the server to accept connections.
const socketPollInterval = 50 * time.Millisecond

// socketDialTimeout is the per-attempt timeout for the readiness dial.
// Generous for a local socket; early attempts fail immediately with
// connection-refused or not-exist, so this only guards pathological cases.
const socketDialTimeout = time.Second

// controlArgs builds the control utility argument list for verb, always
// targeting the instance's cluster directory and log file. start waits for
// readiness (-w) so callers see an accepting server on return. Passthrough
// arguments are appended verbatim.
func (i *Instance) controlArgs(verb string, extra ...string) []string {
	args := []string{verb, "-D", i.ClusterDir(), "-l", i.LogPath()}
	if verb == "start" {
		args = append(args, "-w")
	}
	return append(args, extra...)
}

// ControlAction invokes the control utility with the given verb and any
// passthrough arguments, inheriting stdout/stderr so the utility's progress
// output reaches the user. Failures carry the utility's exit status.
func (i *Instance) ControlAction(ctx context.Context, verb string, extra ...string) error {
	i.log.Debug("control action", "personality", i.pers.Name, "verb", verb, "extra", extra)
	return execx.Run(ctx, i.pers.ControlCommand, i.controlArgs(verb, extra...)...)
}

// IsRunning probes the server by running the status verb and scanning its
// output for the running-server marker. Every failure mode (missing
// instance directory, utility not found, non-zero exit) reports false.
func (i *Instance) IsRunning(ctx context.Context) bool {
	out, err := execx.Output(ctx, i.pers.ControlCommand, i.controlArgs("status")...)
	if err != nil {
		i.log.Debug("status probe", "output", strings.TrimSpace(out), "error", err)
	}
	return strings.Contains(out, runningMarker)
}

// start brings the server up and confirms readiness by dialing the
// instance socket. The control utility already waits for readiness; the
// dial loop is a cheap confirmation that the socket the clients will use is
// actually accepting, bounded by the instance start timeout.
func (i *Instance) start(ctx context.Context) error {
	startCtx, cancel := context.WithTimeout(ctx, i.startTimeout)
	defer cancel()

	if err := i.ControlAction(startCtx, "start"); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	if err := i.waitSocketReady(startCtx); err != nil {
		return fmt.Errorf("server started but socket not ready: %w", err)
	}
	return nil
}

// waitSocketReady polls the server socket until it accepts a connection.
func (i *Instance) waitSocketReady(ctx context.Context) error {
	dialer := &net.Dialer{Timeout: socketDialTimeout}
	sock := i.socketPath()

	attempt := 0
	if err := wait.PollUntilContextCancel(ctx, socketPollInterval, true,
		func(pollCtx context.Context) (bool, error) {
			attempt++
			conn, err := dialer.DialContext(pollCtx, "unix", sock)
			if err != nil {
				i.log.Debug("socket readiness attempt", "socket", sock, "attempt", attempt, "error", err)
				return false, nil
			}
			_ = conn.Close() // best-effort close of the probe connection
			return true, nil
		}); err != nil {
		return fmt.Errorf("wait for socket %s: %w", sock, err)
	}
	return nil
}

// stop shuts the server down gracefully and waits for full shutdown.
func (i *Instance) stop(ctx context.Context) error {
	stopCtx, cancel := context.WithTimeout(ctx, i.stopTimeout)
	defer cancel()

	if err := i.ControlAction(stopCtx, "stop"); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}
	return nil
}

// fastStop attempts a fast-mode server stop with all errors suppressed.
// It is the teardown half of every cleanup path: stopping a server that is
// not running is an idempotent no-op, so failures are logged and discarded.
// The parent context is deliberately detached: cleanup must still run when
// the triggering failure was a cancellation.
func (i *Instance) fastStop(ctx context.Context) {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.stopTimeout)
	defer cancel()

	out, err := execx.Output(stopCtx, i.pers.ControlCommand,
		"stop", "-D", i.ClusterDir(), "-m", "fast")
	if err != nil {
		i.log.Debug("cleanup stop", "output", strings.TrimSpace(out), "error", err)
	}
}
