package cmd

import (
	"github.com/spf13/cobra"
)

// NewCfgCmd creates a new cfg command.
func NewCfgCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:                   "cfg <command> [command flags]",
		DisableFlagParsing:    true,
		DisableFlagsInUseLine: true,
		Short:                 "Configuration inspection utility",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
		Example: `# Print eldev configuration with defaults applied:

	$ eldev cfg dump`,
	}
	cfgCmd.AddCommand(
		NewDumpCmd(),
	)

	return cfgCmd
}
