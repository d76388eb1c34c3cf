package config

import "time"

// Config used to store all information from the
// eldev.yaml configuration file.
type Config struct {
	CliConfig *CliOpts `mapstructure:"eldev" yaml:"eldev"`
}

// CliOpts stores information about eldev configuration.
// Filled in when parsing the eldev.yaml configuration file.
//
// eldev.yaml file format:
// eldev:
//   electron:
//     executable: path
//     args: [arg, ...]
//     environment: name
//     output_path: path
//     verbose: bool
//     log_file: path
//     log_maxsize: num (MB)
//     log_maxage: num (Days)
//     log_maxbackups: num
//   build:
//     command: [arg, ...] or "shell command"
//     watch: [path, ...]
//     ignore: [glob, ...]
//     debounce: duration
//     assets_dir: path
type CliOpts struct {
	// Electron is a struct that contains Electron launch options.
	Electron *ElectronOpts `mapstructure:"electron" yaml:"electron"`
	// Build is a struct that contains watched build options.
	Build *BuildOpts `mapstructure:"build" yaml:"build"`
}

// ElectronOpts is used to store Electron launch options.
type ElectronOpts struct {
	// Executable is a path to the Electron binary. If empty, the project-local
	// node_modules/.bin/electron is used, then electron from PATH.
	Executable string `mapstructure:"executable" yaml:"executable"`
	// Args are extra arguments passed to Electron before the application path.
	Args FieldStringArrayType `mapstructure:"args" yaml:"args"`
	// Environment is a default build environment.
	Environment string `mapstructure:"environment" yaml:"environment"`
	// OutputPath is a default build output directory.
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	// Verbose enables lifecycle notices and debug logging.
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
	// LogFile is a file to duplicate Electron output to. Empty means no file.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
	// LogMaxSize is a maximum size in MB of the log file before
	// it gets rotated.
	LogMaxSize int `mapstructure:"log_maxsize" yaml:"log_maxsize"`
	// LogMaxAge is the maximum number of days to retain old log files
	// based on the timestamp encoded in their filename.
	LogMaxAge int `mapstructure:"log_maxage" yaml:"log_maxage"`
	// LogMaxBackups is the maximum number of old log files to retain.
	LogMaxBackups int `mapstructure:"log_maxbackups" yaml:"log_maxbackups"`
}

// BuildOpts is used to store watched build options.
type BuildOpts struct {
	// Command is the build command. A list is executed as is, a single string
	// is passed to the shell. {{.Environment}} and {{.OutputPath}} are expanded.
	Command FieldStringArrayType `mapstructure:"command" yaml:"command"`
	// Watch is a list of directories to watch for changes.
	Watch FieldStringArrayType `mapstructure:"watch" yaml:"watch"`
	// Ignore is a list of glob patterns for paths that do not trigger a rebuild.
	Ignore FieldStringArrayType `mapstructure:"ignore" yaml:"ignore"`
	// Debounce is a quiet period after a change before a rebuild starts.
	Debounce Duration `mapstructure:"debounce" yaml:"debounce"`
	// AssetsDir is a directory copied into the output path after every build.
	AssetsDir string `mapstructure:"assets_dir" yaml:"assets_dir"`
}

// Duration is a time.Duration written as a string ("100ms") in configuration.
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler interface.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
