package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/eldev/eldev/cli/config"
	"github.com/eldev/eldev/cli/configure"
	"github.com/spf13/cobra"
)

var (
	cmdCtx  cmdcontext.CmdCtx
	cliOpts *config.CliOpts
	rootCmd *cobra.Command
)

// NewCmdRoot creates a new root command.
func NewCmdRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eldev",
		Short: "Electron development runner",
		Long: "Builds a web application in watch mode, runs Electron against the build " +
			"output and cleans up after Electron exits",
		Example: `$ eldev electron --prod
  $ eldev electron -o dist-electron -v
  $ eldev cfg dump`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cmdCtx.Cli.ConfigPath, "cfg", "c",
		"", "Path to configuration file")

	rootCmd.AddCommand(
		NewVersionCmd(),
		NewCompletionCmd(),
		NewElectronCmd(),
		NewCleanCmd(),
		NewCfgCmd(),
		NewInitCmd(),
	)

	rootCmd.InitDefaultHelpCmd()

	log.SetHandler(cli.Default)

	return rootCmd
}

// Execute root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err.Error())
	}
}

// InitRoot initializes global flags and loads the eldev configuration.
func InitRoot() {
	rootCmd = NewCmdRoot()
	rootCmd.ParseFlags(os.Args)

	if err := configure.Cli(&cmdCtx); err != nil {
		log.Fatalf("Failed to configure eldev: %s", err)
	}

	var err error
	cliOpts, _, err = configure.GetCliOpts(cmdCtx.Cli.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to get eldev configuration: %s", err)
	}
}
