package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/build"
	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/eldev/eldev/cli/config"
	"github.com/eldev/eldev/cli/electron"
	"github.com/eldev/eldev/cli/launcher"
	"github.com/eldev/eldev/cli/logger"
	"github.com/eldev/eldev/cli/pidfile"
	"github.com/eldev/eldev/cli/proclog"
	"github.com/eldev/eldev/cli/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const electronOutputPrefix = "[electron] "

var (
	electronOpts   electron.Options
	useDevelopment bool
	useProduction  bool
)

// NewElectronCmd creates a new electron command.
func NewElectronCmd() *cobra.Command {
	var electronCmd = &cobra.Command{
		Use:   "electron [flags]",
		Short: "Build the application and launch Electron",
		Long: "Builds the application in watch mode, launches Electron against the " +
			"build output and removes the output after Electron exits.",
		Example: `$ eldev electron
  $ eldev electron --prod --output-path dist-electron`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmdCtx.CommandName = cmd.Name()
			handleCmdErr(cmd, runElectron(&cmdCtx, getElectronOptions(cmd, cliOpts.Electron)))
		},
	}

	electronCmd.Flags().StringVarP(&electronOpts.Environment, "environment", "e", "",
		fmt.Sprintf("Build environment (default %q)", electron.DefaultEnvironment))
	electronCmd.Flags().BoolVar(&useDevelopment, "dev", false,
		"Shortcut for --environment=development")
	electronCmd.Flags().BoolVar(&useProduction, "prod", false,
		"Shortcut for --environment=production")
	electronCmd.Flags().StringVarP(&electronOpts.OutputPath, "output-path", "o", "",
		fmt.Sprintf("Build output directory, removed on exit (default %q)",
			electron.DefaultOutputPath))
	electronCmd.Flags().BoolVarP(&electronOpts.Verbose, "verbose", "v", false,
		"Report Electron lifecycle events and enable debug logging")
	electronCmd.MarkFlagsMutuallyExclusive("environment", "dev", "prod")
	electronCmd.RegisterFlagCompletionFunc("environment", completeEnvironment)
	electronCmd.MarkFlagDirname("output-path")

	return electronCmd
}

// getElectronOptions merges the command line flags over the configuration.
func getElectronOptions(cmd *cobra.Command, electronCfg *config.ElectronOpts) electron.Options {
	opts := electron.Options{
		Environment: electronCfg.Environment,
		OutputPath:  electronCfg.OutputPath,
		Verbose:     electronCfg.Verbose,
	}
	switch {
	case useDevelopment:
		opts.Environment = "development"
	case useProduction:
		opts.Environment = "production"
	case cmd.Flags().Changed("environment"):
		opts.Environment = electronOpts.Environment
	}
	if cmd.Flags().Changed("output-path") {
		opts.OutputPath = electronOpts.OutputPath
	}
	if cmd.Flags().Changed("verbose") {
		opts.Verbose = electronOpts.Verbose
	}
	return opts
}

// newElectronOutput returns writers for the Electron stdout and stderr.
// If a log file is configured, the output is duplicated into it.
func newElectronOutput(electronCfg *config.ElectronOpts) (io.Writer, io.Writer,
	*proclog.Logger, error) {
	stdout := util.NewColorizedPrefixWriter(os.Stdout, *color.New(color.FgCyan),
		electronOutputPrefix)
	stderr := util.NewColorizedPrefixWriter(os.Stderr, *color.New(color.FgCyan),
		electronOutputPrefix)
	if electronCfg.LogFile == "" {
		return stdout, stderr, nil, nil
	}

	logFile := proclog.NewLogger(&proclog.LoggerOpts{
		Filename:   electronCfg.LogFile,
		MaxSize:    electronCfg.LogMaxSize,
		MaxBackups: electronCfg.LogMaxBackups,
		MaxAge:     electronCfg.LogMaxAge,
	})
	if err := logFile.StartSession("Electron session started"); err != nil {
		logFile.Close()
		return nil, nil, nil, fmt.Errorf("failed to open Electron log file: %w", err)
	}
	log.Debugf("Electron output is written to %q", electronCfg.LogFile)
	return io.MultiWriter(stdout, logFile.Writer()), io.MultiWriter(stderr, logFile.Writer()),
		logFile, nil
}

// newRebuildHandler returns the watched build rebuild callback.
func newRebuildHandler(consoleLogger *logger.Logger) func(error) {
	return func(err error) {
		if err == nil {
			consoleLogger.Message("Rebuild finished.")
			return
		}
		consoleLogger.Error(err)
		var buildErr *build.Error
		if errors.As(err, &buildErr) && len(buildErr.Output) > 0 {
			consoleLogger.Section(strings.Split(strings.TrimRight(string(buildErr.Output),
				"\n"), "\n"))
		}
	}
}

// runElectron wires the electron command collaborators and runs it.
func runElectron(cmdCtx *cmdcontext.CmdCtx, opts electron.Options) error {
	if opts.Verbose {
		cmdCtx.Cli.Verbose = true
		log.SetLevel(log.DebugLevel)
	}

	resolved, err := opts.Resolve(cmdCtx.Cli.ConfigDir)
	if err != nil {
		return err
	}
	pidFileName := pidfile.PathFor(resolved.OutputPath)
	if err := pidfile.Create(pidFileName); err != nil {
		return err
	}
	defer func() {
		if err := pidfile.Remove(pidFileName); err != nil {
			log.Warnf("Failed to remove PID file %q: %s", pidFileName, err)
		}
	}()

	stdout, stderr, logFile, err := newElectronOutput(cliOpts.Electron)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	consoleLogger := logger.NewConsole()
	builder := &build.Builder{
		ProjectDir: cmdCtx.Cli.ConfigDir,
		Command:    cliOpts.Build.Command,
		WatchDirs:  cliOpts.Build.Watch,
		Ignore:     cliOpts.Build.Ignore,
		Debounce:   time.Duration(cliOpts.Build.Debounce),
		AssetsDir:  cliOpts.Build.AssetsDir,
		ShowOutput: opts.Verbose,
		OnRebuild:  newRebuildHandler(consoleLogger),
	}
	electronLauncher := &launcher.Launcher{
		Executable: cliOpts.Electron.Executable,
		Args:       cliOpts.Electron.Args,
		ProjectDir: cmdCtx.Cli.ConfigDir,
		Verbose:    opts.Verbose,
		Stdout:     stdout,
		Stderr:     stderr,
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	command := electron.Command{
		ProjectDir: cmdCtx.Cli.ConfigDir,
		Logger:     consoleLogger,
		Builder:    electron.NewBuilder(builder),
		Launcher:   electron.NewLauncher(electronLauncher),
		Signals:    signals,
	}
	err = command.Run(opts)

	var buildErr *build.Error
	if errors.As(err, &buildErr) && len(buildErr.Output) > 0 {
		os.Stderr.Write(buildErr.Output)
	}
	return err
}
