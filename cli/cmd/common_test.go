package cmd

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/eldev/eldev/cli/config"
	"github.com/eldev/eldev/cli/electron"
	"github.com/eldev/eldev/cli/pidfile"
	"github.com/eldev/eldev/cli/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetElectronOptions(t *testing.T) {
	electronCfg := &config.ElectronOpts{
		Environment: "test",
		OutputPath:  "dist-electron",
		Verbose:     true,
	}

	cases := []struct {
		name     string
		args     []string
		expected electron.Options
	}{
		{"config", nil, electron.Options{Environment: "test", OutputPath: "dist-electron",
			Verbose: true}},
		{"environment", []string{"-e", "staging"}, electron.Options{Environment: "staging",
			OutputPath: "dist-electron", Verbose: true}},
		{"dev", []string{"--dev"}, electron.Options{Environment: "development",
			OutputPath: "dist-electron", Verbose: true}},
		{"prod", []string{"--prod", "-o", "out"}, electron.Options{Environment: "production",
			OutputPath: "out", Verbose: true}},
		{"not verbose", []string{"--verbose=false", "--output-path", "tmp/out"},
			electron.Options{Environment: "test", OutputPath: "tmp/out"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := NewElectronCmd()
			require.NoError(t, cmd.ParseFlags(tc.args))
			assert.Equal(t, tc.expected, getElectronOptions(cmd, electronCfg))
		})
	}
}

func TestElectronEnvironmentFlagsAreExclusive(t *testing.T) {
	cmd := NewElectronCmd()
	cmd.SetArgs([]string{"--dev", "--prod"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.ErrorContains(t, cmd.Execute(), "none of the others can be")
}

func TestClean(t *testing.T) {
	projectDir := t.TempDir()
	outputPath := filepath.Join(projectDir, "electron-livereload")
	require.NoError(t, os.MkdirAll(filepath.Join(outputPath, "assets"), 0755))

	err := clean(strings.NewReader("n\n"), projectDir, "electron-livereload", false)
	assert.ErrorIs(t, err, util.ErrCmdAbort)
	assert.DirExists(t, outputPath)

	require.NoError(t, clean(strings.NewReader("y\n"), projectDir, "electron-livereload", false))
	assert.NoDirExists(t, outputPath)

	// Already cleaned.
	require.NoError(t, clean(strings.NewReader(""), projectDir, "electron-livereload", false))

	require.NoError(t, os.MkdirAll(outputPath, 0755))
	require.NoError(t, clean(strings.NewReader(""), projectDir, outputPath, true))
	assert.NoDirExists(t, outputPath)
	assert.DirExists(t, projectDir)
}

func TestCleanRejectsProjectDir(t *testing.T) {
	projectDir := t.TempDir()
	err := clean(strings.NewReader(""), projectDir, ".", true)
	var argErr *util.ArgError
	assert.ErrorAs(t, err, &argErr)
	assert.DirExists(t, projectDir)
}

func TestCleanRefusesRunningSession(t *testing.T) {
	projectDir := t.TempDir()
	outputPath := filepath.Join(projectDir, "electron-livereload")
	require.NoError(t, os.MkdirAll(outputPath, 0755))

	session := exec.Command("sleep", "10")
	require.NoError(t, session.Start())
	t.Cleanup(func() {
		session.Process.Kill()
		session.Wait()
	})
	require.NoError(t, os.WriteFile(pidfile.PathFor(outputPath),
		[]byte(strconv.Itoa(session.Process.Pid)), 0644))

	err := clean(strings.NewReader(""), projectDir, "electron-livereload", true)
	assert.ErrorIs(t, err, pidfile.ErrLocked)
	assert.DirExists(t, outputPath)
}
