package electron

import (
	"fmt"
	"path/filepath"

	"github.com/eldev/eldev/cli/util"
)

const (
	// DefaultEnvironment is the build environment used if none is given.
	DefaultEnvironment = "development"
	// DefaultOutputPath is the build output directory used if none is given.
	DefaultOutputPath = "electron-livereload"
)

// environmentAliases maps short environment names to full ones.
var environmentAliases = map[string]string{
	"dev":  "development",
	"prod": "production",
}

// Options are the electron command options.
type Options struct {
	// Environment is the build environment.
	Environment string
	// OutputPath is the build output directory. It is removed after Electron exits.
	OutputPath string
	// Verbose enables reporting of Electron close and disconnect events.
	Verbose bool
}

// NormalizeEnvironment expands environment aliases. An empty environment
// becomes DefaultEnvironment, unknown names are kept as is.
func NormalizeEnvironment(environment string) string {
	if environment == "" {
		return DefaultEnvironment
	}
	if full, found := environmentAliases[environment]; found {
		return full
	}
	return environment
}

// normalize returns a copy of opts with defaults and aliases applied.
func (opts Options) normalize() Options {
	opts.Environment = NormalizeEnvironment(opts.Environment)
	if opts.OutputPath == "" {
		opts.OutputPath = DefaultOutputPath
	}
	return opts
}

// Resolve normalizes opts and makes the output path absolute relative to
// projectDir. The output path is removed recursively afterwards, so the
// project directory and its ancestors are rejected.
func (opts Options) Resolve(projectDir string) (Options, error) {
	opts = opts.normalize()

	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return opts, err
	}
	outputPath := opts.OutputPath
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(projectDir, outputPath)
	}
	outputPath = filepath.Clean(outputPath)

	if outputPath == projectDir || util.IsSubPath(outputPath, projectDir) {
		return opts, util.NewArgError(fmt.Sprintf(
			"output path %q must not contain the project directory %q",
			opts.OutputPath, projectDir))
	}
	opts.OutputPath = outputPath
	return opts, nil
}
