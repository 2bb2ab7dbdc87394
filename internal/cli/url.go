package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newURLCommand returns the url subcommand: print the instance connection
// string. Pure; no server state is consulted.
func newURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "url",
		Short:              "Print the instance connection string",
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
			fmt.Fprintln(cmd.OutOrStdout(), env.URL())
			return nil
		},
	}
}
