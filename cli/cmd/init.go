package cmd

import (
	"fmt"

	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/eldev/eldev/cli/configure"
	init_pkg "github.com/eldev/eldev/cli/init"
	"github.com/spf13/cobra"
)

var initCtx init_pkg.InitCtx

// NewInitCmd creates a command that generates the default eldev.yaml in the
// current working directory.
func NewInitCmd() *cobra.Command {
	var initCmd = &cobra.Command{
		Use:   "init [flags]",
		Short: "Create eldev config in current directory",
		Args:  cobra.NoArgs,
		Run:   RunModuleFunc(internalInitModule),
	}

	initCmd.Flags().BoolVarP(&initCtx.ForceMode, "force", "f", false,
		fmt.Sprintf(`Force re-write existing %s`, configure.ConfigName))

	return initCmd
}

// internalInitModule is a default init module.
func internalInitModule(cmdCtx *cmdcontext.CmdCtx, args []string) error {
	init_pkg.FillCtx(&initCtx)
	return init_pkg.Run(&initCtx)
}
