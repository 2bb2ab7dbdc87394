// Command dbenv manages an ephemeral, filesystem-scoped database instance
// rooted at ./var, driving the host's installed server binaries.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/giantswarm/dbenv/internal/cli"
	"github.com/giantswarm/dbenv/internal/execx"
)

func main() {
	os.Exit(run())
}

// run executes the command tree and maps the failure back to a process exit
// code. External command failures propagate the failing utility's own exit
// status; everything else exits 1.
func run() int {
	level := slog.LevelInfo
	if os.Getenv("DBENV_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "dbenv:", err)
		return execx.ExitCode(err)
	}
	return 0
}
