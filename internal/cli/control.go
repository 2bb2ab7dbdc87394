package cli

import (
	"github.com/spf13/cobra"

	"github.com/giantswarm/dbenv"
)

// controlRunE builds a RunE forwarding verb plus any passthrough arguments
// to the control utility, with the persisted personality applied.
func controlRunE(run func(env *dbenv.Env, cmd *cobra.Command, extra []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if wantsHelp(args) {
			return cmd.Help()
		}
		name, rest := splitPersonality(args)
		env, err := newEnv(name)
		if err != nil {
			return err
		}
		return run(env, cmd, rest)
	}
}

func newStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "start [control utility args...]",
		Short:              "Start the server",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: controlRunE(func(env *dbenv.Env, cmd *cobra.Command, extra []string) error {
			return env.Start(cmd.Context(), extra...)
		}),
	}
}

func newStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "stop [control utility args...]",
		Short:              "Stop the server",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: controlRunE(func(env *dbenv.Env, cmd *cobra.Command, extra []string) error {
			return env.Stop(cmd.Context(), extra...)
		}),
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "status [control utility args...]",
		Short:              "Report whether the server is running",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: controlRunE(func(env *dbenv.Env, cmd *cobra.Command, extra []string) error {
			return env.Status(cmd.Context(), extra...)
		}),
	}
}
