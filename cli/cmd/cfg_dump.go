package cmd

import (
	"os"

	"github.com/eldev/eldev/cli/cfg"
	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/spf13/cobra"
)

var (
	rawDump bool
)

// NewDumpCmd creates a new dump command.
func NewDumpCmd() *cobra.Command {
	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print eldev configuration",
		Run:   RunModuleFunc(internalDumpModule),
	}

	dumpCmd.Flags().BoolVarP(&rawDump, "raw", "r", false,
		"Display the raw contents of eldev config.")

	return dumpCmd
}

// internalDumpModule is a default dump module.
func internalDumpModule(cmdCtx *cmdcontext.CmdCtx, args []string) error {
	dumpCtx := cfg.DumpCtx{
		RawDump: rawDump,
	}

	return cfg.RunDump(os.Stdout, cmdCtx, &dumpCtx, cliOpts)
}
