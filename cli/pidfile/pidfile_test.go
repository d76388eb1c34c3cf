package pidfile

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("/project", ".electron-livereload.pid"),
		PathFor("/project/electron-livereload"))
}

func TestCreateAndRemove(t *testing.T) {
	pidFileName := filepath.Join(t.TempDir(), "run", "out.pid")

	require.NoError(t, Create(pidFileName))
	pid, err := Read(pidFileName)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	// The current process does not lock itself out.
	require.NoError(t, Check(pidFileName))
	assert.NoFileExists(t, pidFileName)

	require.NoError(t, Create(pidFileName))
	require.NoError(t, Remove(pidFileName))
	assert.NoFileExists(t, pidFileName)
	require.NoError(t, Remove(pidFileName))
}

func TestCreateLocked(t *testing.T) {
	pidFileName := filepath.Join(t.TempDir(), "out.pid")
	cmd := exec.Command("sleep", "10")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		cmd.Process.Kill()
		cmd.Wait()
	})
	require.NoError(t, os.WriteFile(pidFileName, []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	err := Create(pidFileName)
	assert.True(t, errors.Is(err, ErrLocked))

	// A foreign PID file is kept.
	require.NoError(t, Remove(pidFileName))
	assert.FileExists(t, pidFileName)
}

func TestCheckStale(t *testing.T) {
	pidFileName := filepath.Join(t.TempDir(), "out.pid")
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())
	require.NoError(t, os.WriteFile(pidFileName, []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	require.NoError(t, Check(pidFileName))
	assert.NoFileExists(t, pidFileName)
}

func TestReadInvalid(t *testing.T) {
	pidFileName := filepath.Join(t.TempDir(), "out.pid")
	require.NoError(t, os.WriteFile(pidFileName, []byte("pid"), 0644))

	_, err := Read(pidFileName)
	assert.ErrorContains(t, err, "unknown format")
	assert.ErrorContains(t, Create(pidFileName), "unknown format")
}
