// Package execx invokes the external database administration utilities.
//
// Every command runs with a forced UTF-8 locale so output parsing and
// cluster initialization behave identically regardless of the caller's
// environment. Failures keep the underlying *exec.ExitError in the wrap
// chain so callers can propagate the utility's own exit code.
package execx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// localeEnv is appended to the inherited environment for every external
// command invocation. Later entries win, so these override any inherited
// locale settings.
var localeEnv = []string{"LC_ALL=C.UTF-8", "LANG=C.UTF-8"}

// Command builds an *exec.Cmd for the given utility with the forced locale
// applied. Stdio is left unset; callers choose inherit or capture.
func Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), localeEnv...)
	return cmd
}

// Run executes the utility with stdout and stderr inherited from the
// calling process, so utility progress output reaches the user directly.
func Run(ctx context.Context, name string, args ...string) error {
	cmd := Command(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// Output executes the utility and returns its combined stdout and stderr.
// The output is returned even when the command exits non-zero, since status
// probes need to inspect it either way.
func Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := Command(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// Exec replaces the current process image with the named program, resolving
// it via PATH and passing the forced-locale environment. It only returns on
// failure. argv0 semantics follow execve: args must include the program
// name as its first element.
func Exec(name string, args []string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("look up %s: %w", name, err)
	}
	env := append(os.Environ(), localeEnv...)
	if err := syscall.Exec(path, args, env); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

// ExitCode extracts the process exit code from an error returned by Run or
// Output. Returns 0 for nil and 1 for errors that did not originate from a
// process exit (lookup failures, signals without status).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
