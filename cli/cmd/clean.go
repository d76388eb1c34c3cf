package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/eldev/eldev/cli/electron"
	"github.com/eldev/eldev/cli/pidfile"
	"github.com/eldev/eldev/cli/util"
	"github.com/spf13/cobra"
)

var (
	forceRemove     bool
	cleanOutputPath string
)

// NewCleanCmd creates clean command.
func NewCleanCmd() *cobra.Command {
	var cleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Remove a leftover Electron build output directory",
		Args:  cobra.NoArgs,
		Run:   RunModuleFunc(internalCleanModule),
	}

	cleanCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "do not ask for confirmation")
	cleanCmd.Flags().StringVarP(&cleanOutputPath, "output-path", "o", "",
		"Build output directory (default is taken from the configuration)")

	return cleanCmd
}

// clean removes the output directory after confirmation, unless force is set.
func clean(input io.Reader, projectDir, outputPath string, force bool) error {
	opts, err := electron.Options{OutputPath: outputPath}.Resolve(projectDir)
	if err != nil {
		return err
	}

	if err := pidfile.Check(pidfile.PathFor(opts.OutputPath)); err != nil {
		return err
	}

	if !util.IsDir(opts.OutputPath) {
		log.Infof("%q does not exist. Already cleaned.", opts.OutputPath)
		return nil
	}

	if !force {
		confirm, err := util.AskConfirm(input, fmt.Sprintf("Remove %q", opts.OutputPath))
		if err != nil {
			return err
		}
		if !confirm {
			return util.ErrCmdAbort
		}
	}

	if err := util.RemoveAll(opts.OutputPath); err != nil {
		return err
	}
	log.Infof("Removed %q", opts.OutputPath)
	return nil
}

// internalCleanModule is a default clean module.
func internalCleanModule(cmdCtx *cmdcontext.CmdCtx, args []string) error {
	outputPath := cliOpts.Electron.OutputPath
	if cleanOutputPath != "" {
		outputPath = cleanOutputPath
	}
	return clean(os.Stdin, cmdCtx.Cli.ConfigDir, outputPath, forceRemove)
}
