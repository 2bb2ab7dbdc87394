// Package cli implements the dbenv command line interface on cobra.
//
// The surface is deliberately small: four lifecycle verbs forwarded to the
// control utility, setup, url, rm, and a default action (no subcommand)
// that runs setup followed by an interactive client session. Flag parsing
// is disabled on every command so unrecognized tokens pass through verbatim
// to the underlying utilities; the only options the dispatcher itself
// recognizes are -p/--personality and a literal "--", which ends option
// scanning and is forwarded as-is.
//
// A verb is matched only as the first non-flag token of the invocation.
// Anything after an unrecognized first token belongs to the default action
// and reaches the client verbatim; "dbenv somearg start" therefore opens a
// session with "somearg start" as client arguments rather than starting the
// server.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/giantswarm/dbenv"
)

// newEnv constructs the Env for one invocation, rooted at the working
// directory, with the personality precedence (explicit flag, persisted
// marker, default) applied exactly once.
func newEnv(personalityName string) (*dbenv.Env, error) {
	opts := []dbenv.Option{}
	if personalityName != "" {
		opts = append(opts, dbenv.WithPersonality(personalityName))
	}
	return dbenv.New(opts...)
}

// splitPersonality scans args for -p/--personality, consuming the following
// token as the flavor name, and returns the remaining arguments untouched
// and in order. A literal "--" stops the scan; it and everything after it
// are forwarded verbatim, including the "--" itself.
func splitPersonality(args []string) (name string, rest []string) {
	for idx := 0; idx < len(args); idx++ {
		tok := args[idx]
		if tok == "--" {
			rest = append(rest, args[idx:]...)
			break
		}
		if tok == "-p" || tok == "--personality" {
			if idx+1 < len(args) {
				idx++
				name = args[idx]
			}
			continue
		}
		if v, ok := strings.CutPrefix(tok, "--personality="); ok {
			name = v
			continue
		}
		rest = append(rest, tok)
	}
	return name, rest
}

// wantsHelp reports whether the raw arguments ask for help. Needed because
// flag parsing is disabled, so cobra's automatic help flag never fires.
func wantsHelp(args []string) bool {
	for _, tok := range args {
		if tok == "--" {
			return false
		}
		if tok == "-h" || tok == "--help" {
			return true
		}
	}
	return false
}

// NewRootCommand builds the full dbenv command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dbenv [-p personality] [command] [args...]",
		Short: "Ephemeral local PostgreSQL instances from installed binaries",
		Long: `dbenv manages the lifecycle of a locally-running database server instance
rooted in ./var, using the server binaries already installed on the host.
The server binds a UNIX socket inside the instance directory; access is
trust-based and gated by filesystem permissions.

Without a command, dbenv runs setup (idempotent) and then opens an
interactive client session, starting the server if needed.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			name, rest := splitPersonality(args)
			env, err := newEnv(name)
			if err != nil {
				return err
			}
			if err := env.Setup(cmd.Context()); err != nil {
				return err
			}
			return env.Connect(cmd.Context(), rest...)
		},
	}

	root.AddCommand(
		newSetupCommand(),
		newURLCommand(),
		newStartCommand(),
		newStopCommand(),
		newStatusCommand(),
		newConnectCommand(),
		newRmCommand(),
	)
	return root
}
