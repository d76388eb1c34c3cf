package cfg

import (
	"fmt"
	"io"
	"os"

	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/eldev/eldev/cli/config"
	"gopkg.in/yaml.v2"
)

// DumpCtx contains information for eldev config dump.
type DumpCtx struct {
	// RawDump is a dump mode flag. If set, raw contents of eldev configuration file is printed.
	RawDump bool
}

// dumpRaw prints raw content of eldev config file.
func dumpRaw(writer io.Writer, cmdCtx *cmdcontext.CmdCtx) error {
	if cmdCtx.Cli.ConfigPath == "" {
		return fmt.Errorf("eldev configuration file is not found")
	}
	fileContent, err := os.ReadFile(cmdCtx.Cli.ConfigPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(writer, "%s:\n", cmdCtx.Cli.ConfigPath)
	_, err = writer.Write(fileContent)
	return err
}

// dumpConfiguration prints eldev configuration with defaults applied and
// all paths resolved.
func dumpConfiguration(writer io.Writer, cmdCtx *cmdcontext.CmdCtx,
	cliOpts *config.CliOpts) error {
	if cmdCtx.Cli.ConfigPath != "" {
		if _, err := os.Stat(cmdCtx.Cli.ConfigPath); err == nil {
			fmt.Fprintf(writer, "%s:\n", cmdCtx.Cli.ConfigPath)
		}
	}
	return yaml.NewEncoder(writer).Encode(config.Config{CliConfig: cliOpts})
}

// RunDump prints eldev configuration.
func RunDump(writer io.Writer, cmdCtx *cmdcontext.CmdCtx, dumpCtx *DumpCtx,
	cliOpts *config.CliOpts) error {
	if dumpCtx.RawDump {
		return dumpRaw(writer, cmdCtx)
	}
	return dumpConfiguration(writer, cmdCtx, cliOpts)
}
