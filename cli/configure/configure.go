package configure

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/eldev/eldev/cli/config"
	"github.com/eldev/eldev/cli/electron"
	"github.com/eldev/eldev/cli/util"
	"github.com/mitchellh/mapstructure"
)

const (
	ConfigName = "eldev.yaml"
	// configPathEnvName is an environment variable that contains a path to
	// the configuration file.
	configPathEnvName = "ELDEV_CFG"
)

const (
	// DefaultAssetsDir is a directory with Electron main process files.
	DefaultAssetsDir = "electron-app"

	defaultDebounce   = 100 * time.Millisecond
	defaultLogMaxSize = 100
)

var (
	defaultBuildCommand = []string{
		"ember", "build",
		"--environment", "{{.Environment}}",
		"--output-path", "{{.OutputPath}}",
	}
	defaultWatchDirs      = []string{"app", "public", DefaultAssetsDir}
	defaultIgnorePatterns = []string{"**/.*", "**/node_modules/**", "**/tmp/**"}
)

// getDefaultElectronOpts generates default Electron launch config.
func getDefaultElectronOpts() *config.ElectronOpts {
	return &config.ElectronOpts{
		Environment: electron.DefaultEnvironment,
		OutputPath:  electron.DefaultOutputPath,
		LogMaxSize:  defaultLogMaxSize,
	}
}

// getDefaultBuildOpts generates default watched build config.
func getDefaultBuildOpts() *config.BuildOpts {
	return &config.BuildOpts{
		Command:   config.NewSingleOrArray(defaultBuildCommand...),
		Watch:     config.NewSingleOrArray(defaultWatchDirs...),
		Ignore:    config.NewSingleOrArray(defaultIgnorePatterns...),
		Debounce:  config.Duration(defaultDebounce),
		AssetsDir: DefaultAssetsDir,
	}
}

// GetDefaultCliOpts returns `CliOpts` filled with default values.
func GetDefaultCliOpts() *config.CliOpts {
	return &config.CliOpts{
		Electron: getDefaultElectronOpts(),
		Build:    getDefaultBuildOpts(),
	}
}

// adjustPathWithConfigLocation adjust provided filePath with configDir.
// Absolute filePath is returned as is. Relative filePath is calculated relative to configDir.
// If filePath is empty, defaultDirName is appended to configDir.
func adjustPathWithConfigLocation(filePath, configDir string,
	defaultDirName string,
) (string, error) {
	if filePath == "" {
		if defaultDirName == "" {
			return "", nil
		}
		return filepath.Abs(filepath.Join(configDir, defaultDirName))
	}
	if filepath.IsAbs(filePath) {
		return filePath, nil
	}
	return filepath.Abs(filepath.Join(configDir, filePath))
}

func adjustListPathWithConfigLocation(listPaths []string, configDir string) ([]string, error) {
	result := make([]string, 0, len(listPaths))
	for _, path := range listPaths {
		path, err := adjustPathWithConfigLocation(path, configDir, "")
		if err != nil {
			return result, err
		}
		result = append(result, path)
	}
	return result, nil
}

// updateCliOpts resolves all paths in config relative to specified location, and
// sets uninitialized values to defaults.
func updateCliOpts(cliOpts *config.CliOpts, configDir string) error {
	var err error

	defaults := GetDefaultCliOpts()
	if cliOpts.Electron == nil {
		cliOpts.Electron = defaults.Electron
	}
	if cliOpts.Build == nil {
		cliOpts.Build = defaults.Build
	}

	electronOpts := cliOpts.Electron
	if electronOpts.Environment == "" {
		electronOpts.Environment = defaults.Electron.Environment
	}
	if electronOpts.OutputPath == "" {
		electronOpts.OutputPath = defaults.Electron.OutputPath
	}
	if electronOpts.LogMaxSize == 0 {
		electronOpts.LogMaxSize = defaults.Electron.LogMaxSize
	}
	// A bare executable name is looked up in PATH at launch time.
	if strings.ContainsRune(electronOpts.Executable, filepath.Separator) {
		if electronOpts.Executable, err = adjustPathWithConfigLocation(
			electronOpts.Executable, configDir, ""); err != nil {
			return err
		}
	}
	if electronOpts.LogFile, err = adjustPathWithConfigLocation(electronOpts.LogFile,
		configDir, ""); err != nil {
		return err
	}

	build := cliOpts.Build
	if len(build.Command) == 0 {
		build.Command = defaults.Build.Command
	}
	if len(build.Watch) == 0 {
		build.Watch = defaults.Build.Watch
	}
	if len(build.Ignore) == 0 {
		build.Ignore = defaults.Build.Ignore
	}
	if build.Debounce <= 0 {
		build.Debounce = defaults.Build.Debounce
	}
	if build.Watch, err = adjustListPathWithConfigLocation(build.Watch, configDir); err != nil {
		return err
	}
	if build.AssetsDir, err = adjustPathWithConfigLocation(build.AssetsDir, configDir,
		DefaultAssetsDir); err != nil {
		return err
	}

	return nil
}

func decodeStringAsArrayField(from, to reflect.Type, value interface{}) (
	interface{}, error,
) {
	if to != reflect.TypeOf(config.FieldStringArrayType{}) || from.Kind() != reflect.String {
		return value, nil
	}
	return []string{value.(string)}, nil
}

// decodeDurationField decodes "250ms" strings and bare integers, which are
// milliseconds.
func decodeDurationField(from, to reflect.Type, value interface{}) (
	interface{}, error,
) {
	if to != reflect.TypeOf(config.Duration(0)) {
		return value, nil
	}
	switch from.Kind() {
	case reflect.String:
		duration, err := time.ParseDuration(value.(string))
		if err != nil {
			return nil, err
		}
		return config.Duration(duration), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return config.Duration(time.Duration(reflect.ValueOf(value).Int()) *
			time.Millisecond), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return config.Duration(time.Duration(reflect.ValueOf(value).Uint()) *
			time.Millisecond), nil
	}
	return nil, fmt.Errorf("invalid duration %v: expected a string like \"100ms\" "+
		"or a number of milliseconds", value)
}

func decodeConfig(input map[string]any, cfg *config.Config) error {
	decoderConfig := mapstructure.DecoderConfig{
		Result: cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(decodeStringAsArrayField,
			decodeDurationField),
	}
	decoder, err := mapstructure.NewDecoder(&decoderConfig)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// GetCliOpts returns eldev options from the config file
// located at path configurePath.
func GetCliOpts(configurePath string) (*config.CliOpts, string, error) {
	// Defaults are applied after decoding: mapstructure merges lists
	// element-wise into a non-empty slice.
	cfg := config.Config{}
	configPath := ""
	var err error
	if configurePath != "" {
		configPath, err = util.GetYamlFileName(configurePath, true)
	} else {
		err = os.ErrNotExist
	}
	if err == nil {
		rawConfigOpts, err := util.ParseYAML(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse eldev configuration: %s", err)
		}
		if _, ok := rawConfigOpts["eldev"]; !ok {
			return nil, "",
				fmt.Errorf("failed to parse eldev configuration: missing eldev section")
		}

		if err := decodeConfig(rawConfigOpts, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse eldev configuration: %s", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("failed to get access to configuration file: %s", err)
	} else {
		configPath = ""
	}
	if cfg.CliConfig == nil {
		cfg.CliConfig = GetDefaultCliOpts()
	}

	configDir := ""
	if configPath == "" {
		configDir, err = os.Getwd()
		if err != nil {
			return cfg.CliConfig, configPath, err
		}
	} else {
		if configDir, err = filepath.Abs(filepath.Dir(configPath)); err != nil {
			return cfg.CliConfig, configPath, err
		}
	}

	if err = updateCliOpts(cfg.CliConfig, configDir); err != nil {
		return cfg.CliConfig, "", err
	}

	return cfg.CliConfig, configPath, nil
}

// Cli performs initial CLI configuration.
func Cli(cmdCtx *cmdcontext.CmdCtx) error {
	if cmdCtx.Cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	var err error
	if cmdCtx.Cli.ConfigPath == "" {
		cmdCtx.Cli.ConfigPath = os.Getenv(configPathEnvName)
	}

	if cmdCtx.Cli.ConfigPath != "" {
		if _, err := os.Stat(cmdCtx.Cli.ConfigPath); err != nil {
			return fmt.Errorf("specified path to the configuration file is invalid: %s", err)
		}
	} else if cmdCtx.Cli.ConfigPath, err = getConfigPath(ConfigName); err != nil {
		return fmt.Errorf("failed to get eldev config: %s", err)
	}

	if cmdCtx.Cli.ConfigPath != "" {
		if cmdCtx.Cli.ConfigPath, err = filepath.Abs(cmdCtx.Cli.ConfigPath); err != nil {
			return err
		}
		cmdCtx.Cli.ConfigDir = filepath.Dir(cmdCtx.Cli.ConfigPath)
	} else if cmdCtx.Cli.ConfigDir, err = os.Getwd(); err != nil {
		return fmt.Errorf("failed to detect current directory: %s", err)
	}
	log.Debugf("eldev configuration: %q, project directory: %q", cmdCtx.Cli.ConfigPath,
		cmdCtx.Cli.ConfigDir)

	return nil
}

// getConfigPath looks for the path to the eldev.yaml configuration file,
// looking through all directories from the current one to the root.
// This search pattern allows you to call eldev from any subdirectory of the project.
func getConfigPath(configName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to detect current directory: %s", err)
	}

	for {
		configPath, err := util.GetYamlFileName(filepath.Join(curDir, configName), true)
		if err == nil {
			return configPath, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(curDir)
		if parent == curDir {
			break
		}
		curDir = parent
	}

	return "", nil
}
