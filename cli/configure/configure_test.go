package configure

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eldev/eldev/cli/cmdcontext"
	"github.com/eldev/eldev/cli/config"
	"github.com/eldev/eldev/cli/electron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	configPath := filepath.Join(dir, ConfigName)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestGetCliOptsDefaults(t *testing.T) {
	workDir := t.TempDir()
	chdir(t, workDir)

	cliOpts, configPath, err := GetCliOpts("")
	require.NoError(t, err)
	assert.Equal(t, "", configPath)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, electron.DefaultEnvironment, cliOpts.Electron.Environment)
	assert.Equal(t, electron.DefaultOutputPath, cliOpts.Electron.OutputPath)
	assert.False(t, cliOpts.Electron.Verbose)
	assert.Equal(t, "", cliOpts.Electron.Executable)
	assert.Equal(t, "", cliOpts.Electron.LogFile)
	assert.Equal(t, defaultLogMaxSize, cliOpts.Electron.LogMaxSize)

	assert.Equal(t, config.NewSingleOrArray(defaultBuildCommand...), cliOpts.Build.Command)
	assert.Equal(t, config.FieldStringArrayType{
		filepath.Join(cwd, "app"),
		filepath.Join(cwd, "public"),
		filepath.Join(cwd, DefaultAssetsDir),
	}, cliOpts.Build.Watch)
	assert.Equal(t, config.NewSingleOrArray(defaultIgnorePatterns...), cliOpts.Build.Ignore)
	assert.Equal(t, config.Duration(defaultDebounce), cliOpts.Build.Debounce)
	assert.Equal(t, filepath.Join(cwd, DefaultAssetsDir), cliOpts.Build.AssetsDir)
}

func TestGetCliOptsFromFile(t *testing.T) {
	projectDir := t.TempDir()
	configPath := writeConfig(t, projectDir, `eldev:
  electron:
    executable: ./bin/electron
    args: --inspect=5858
    environment: production
    output_path: out
    verbose: true
    log_file: log/electron.log
    log_maxbackups: 3
  build:
    command: npm run build
    watch: src
    debounce: 250ms
    assets_dir: /opt/assets
`)

	cliOpts, foundPath, err := GetCliOpts(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, foundPath)

	assert.Equal(t, filepath.Join(projectDir, "bin", "electron"), cliOpts.Electron.Executable)
	assert.Equal(t, config.NewSingleOrArray("--inspect=5858"), cliOpts.Electron.Args)
	assert.Equal(t, "production", cliOpts.Electron.Environment)
	assert.Equal(t, "out", cliOpts.Electron.OutputPath)
	assert.True(t, cliOpts.Electron.Verbose)
	assert.Equal(t, filepath.Join(projectDir, "log", "electron.log"), cliOpts.Electron.LogFile)
	assert.Equal(t, 3, cliOpts.Electron.LogMaxBackups)
	assert.Equal(t, defaultLogMaxSize, cliOpts.Electron.LogMaxSize)

	assert.Equal(t, config.NewSingleOrArray("npm run build"), cliOpts.Build.Command)
	assert.Equal(t, config.NewSingleOrArray(filepath.Join(projectDir, "src")),
		cliOpts.Build.Watch)
	assert.Equal(t, config.NewSingleOrArray(defaultIgnorePatterns...), cliOpts.Build.Ignore)
	assert.Equal(t, config.Duration(250*time.Millisecond), cliOpts.Build.Debounce)
	assert.Equal(t, "/opt/assets", cliOpts.Build.AssetsDir)
}

func TestGetCliOptsBareExecutableName(t *testing.T) {
	projectDir := t.TempDir()
	configPath := writeConfig(t, projectDir, `eldev:
  electron:
    executable: electron-nightly
`)

	cliOpts, _, err := GetCliOpts(configPath)
	require.NoError(t, err)
	assert.Equal(t, "electron-nightly", cliOpts.Electron.Executable)
	assert.NotNil(t, cliOpts.Build)
}

func TestGetCliOptsDebounce(t *testing.T) {
	projectDir := t.TempDir()

	cases := map[string]time.Duration{
		"debounce: 300":    300 * time.Millisecond,
		"debounce: 1s":     time.Second,
		"debounce: 50ms":   50 * time.Millisecond,
		"debounce: 0":      defaultDebounce,
		"debounce: \"0s\"": defaultDebounce,
	}
	for line, expected := range cases {
		t.Run(line, func(t *testing.T) {
			configPath := writeConfig(t, projectDir, "eldev:\n  build:\n    "+line+"\n")
			cliOpts, _, err := GetCliOpts(configPath)
			require.NoError(t, err)
			assert.Equal(t, config.Duration(expected), cliOpts.Build.Debounce)
		})
	}

	configPath := writeConfig(t, projectDir, "eldev:\n  build:\n    debounce: 1.5\n")
	_, _, err := GetCliOpts(configPath)
	assert.ErrorContains(t, err, "number of milliseconds")
}

func TestGetCliOptsErrors(t *testing.T) {
	projectDir := t.TempDir()

	configPath := writeConfig(t, projectDir, "build:\n  command: make\n")
	_, _, err := GetCliOpts(configPath)
	assert.EqualError(t, err, "failed to parse eldev configuration: missing eldev section")

	configPath = writeConfig(t, projectDir, "eldev:\n  build:\n    debounce: soon\n")
	_, _, err = GetCliOpts(configPath)
	assert.ErrorContains(t, err, "failed to parse eldev configuration")

	configPath = writeConfig(t, projectDir, "eldev:\n  electron:\n    verbose: [1, 2]\n")
	_, _, err = GetCliOpts(configPath)
	assert.ErrorContains(t, err, "failed to parse eldev configuration")
}

func TestCliFindsConfigInParentDirectory(t *testing.T) {
	projectDir := t.TempDir()
	configPath := writeConfig(t, projectDir, "eldev:\n")
	nestedDir := filepath.Join(projectDir, "app", "components")
	require.NoError(t, os.MkdirAll(nestedDir, 0755))
	chdir(t, nestedDir)
	t.Setenv(configPathEnvName, "")

	var cmdCtx cmdcontext.CmdCtx
	require.NoError(t, Cli(&cmdCtx))

	expectedPath, err := filepath.EvalSymlinks(configPath)
	require.NoError(t, err)
	actualPath, err := filepath.EvalSymlinks(cmdCtx.Cli.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, expectedPath, actualPath)
	assert.Equal(t, filepath.Dir(cmdCtx.Cli.ConfigPath), cmdCtx.Cli.ConfigDir)
}

func TestCliWithoutConfig(t *testing.T) {
	workDir := t.TempDir()
	chdir(t, workDir)
	t.Setenv(configPathEnvName, "")

	var cmdCtx cmdcontext.CmdCtx
	require.NoError(t, Cli(&cmdCtx))
	assert.Equal(t, "", cmdCtx.Cli.ConfigPath)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, cmdCtx.Cli.ConfigDir)
}

func TestCliConfigFromEnv(t *testing.T) {
	projectDir := t.TempDir()
	configPath := writeConfig(t, projectDir, "eldev:\n")
	t.Setenv(configPathEnvName, configPath)

	var cmdCtx cmdcontext.CmdCtx
	require.NoError(t, Cli(&cmdCtx))
	assert.Equal(t, configPath, cmdCtx.Cli.ConfigPath)

	t.Setenv(configPathEnvName, filepath.Join(projectDir, "missing.yaml"))
	cmdCtx = cmdcontext.CmdCtx{}
	assert.ErrorContains(t, Cli(&cmdCtx),
		"specified path to the configuration file is invalid")
}
