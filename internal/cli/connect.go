package cli

import (
	"github.com/spf13/cobra"

	"github.com/giantswarm/dbenv"
)

// newConnectCommand returns the connect subcommand: start the server if
// needed, then hand the process over to the interactive client. Extra
// arguments reach the client verbatim.
func newConnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "connect [client args...]",
		Short:              "Open an interactive client session, starting the server if needed",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: controlRunE(func(env *dbenv.Env, cmd *cobra.Command, extra []string) error {
			return env.Connect(cmd.Context(), extra...)
		}),
	}
}
