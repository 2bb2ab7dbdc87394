package core

import (
	"context"
	"fmt"
)

// ClientArgv builds the interactive client argument vector: socket host,
// dedicated role and database, then any passthrough arguments. The first
// element is the program name, execve-style.
func (i *Instance) ClientArgv(extra ...string) []string {
	argv := []string{i.pers.ShellCommand, "-h", i.root, "-U", RoleName, RoleName}
	return append(argv, extra...)
}

// Connect opens an interactive client session against the instance,
// starting the server first if it is not running. The session is entered by
// replacing the process image with the client shell, so on success Connect
// never returns and the server deliberately outlives the session.
//
// If handing off to the client fails, the same teardown that guards
// initialization runs: a fast-mode server stop with errors suppressed,
// before the failure propagates.
func (i *Instance) Connect(ctx context.Context, extra ...string) error {
	if !i.IsRunning(ctx) {
		if err := i.start(ctx); err != nil {
			i.fastStop(ctx)
			return err
		}
	}

	if err := i.exec(i.pers.ShellCommand, i.ClientArgv(extra...)); err != nil {
		i.fastStop(ctx)
		return fmt.Errorf("open client session: %w", err)
	}
	return nil
}
