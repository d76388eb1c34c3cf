package cmd

import (
	"errors"
	"os"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/eldev/eldev/cli/util"
	"github.com/spf13/cobra"
)

// moduleFunc is a command implementation.
type moduleFunc func(cmdCtx *cmdcontext.CmdCtx, args []string) error

// RunModuleFunc returns a cobra Run function that executes module and
// handles its error.
func RunModuleFunc(module moduleFunc) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		cmdCtx.CommandName = cmd.Name()
		handleCmdErr(cmd, module(&cmdCtx, args))
	}
}

// handleCmdErr handles an error returned by command implementation.
// If received error is of an ArgError type, usage help is printed.
func handleCmdErr(cmd *cobra.Command, err error) {
	if err != nil {
		var argError *util.ArgError
		if errors.As(err, &argError) {
			log.Error(argError.Error())
			cmd.Usage()
			os.Exit(1)
		}
		log.Fatal(err.Error())
	}
}
