package cli

import (
	"github.com/spf13/cobra"
)

// newRmCommand returns the rm subcommand: remove the instance directory
// wholesale, from any state. Missing directory is a success no-op.
func newRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "rm",
		Short:              "Remove the instance directory",
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
			return env.Remove(cmd.Context())
		},
	}
}
