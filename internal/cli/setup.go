package cli

import (
	"github.com/spf13/cobra"
)

// newSetupCommand returns the setup subcommand: idempotent instance
// creation, leaving the server stopped.
func newSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "setup [-p personality]",
		Short:              "Create the instance directory and provision the database",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			name, _ := splitPersonality(args)
			env, err := newEnv(name)
			if err != nil {
				return err
			}
			return env.Setup(cmd.Context())
		},
	}
}
