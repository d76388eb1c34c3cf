package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultDirPerms is used to create a missing PID file directory.
const defaultDirPerms = 0770

// ErrLocked is returned if the PID file belongs to a running process.
var ErrLocked = errors.New("the output directory is used by another eldev process")

// PathFor returns the PID file path guarding outputPath: a hidden file next to it.
func PathFor(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".pid")
}

// Read returns PID from the PID file.
func Read(pidFileName string) (int, error) {
	pidBytes, err := os.ReadFile(pidFileName)
	if err != nil {
		return 0, fmt.Errorf("can't read the PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidBytes)))
	if err != nil {
		return 0, fmt.Errorf("PID file exists with unknown format: %w", err)
	}

	return pid, nil
}

// Check returns ErrLocked if the PID file exists and its process is alive.
// A stale PID file is removed.
func Check(pidFileName string) error {
	if _, err := os.Stat(pidFileName); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("can't stat the PID file: %w", err)
	}

	pid, err := Read(pidFileName)
	if err != nil {
		return err
	}
	if pid != os.Getpid() && IsProcessAlive(pid) {
		return fmt.Errorf("%w (PID: %d)", ErrLocked, pid)
	}
	if err := os.Remove(pidFileName); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("can't remove stale PID file: %w", err)
	}
	return nil
}

// Create checks that the PID file is absent or stale and creates a new one
// with the current process PID.
func Create(pidFileName string) error {
	if err := Check(pidFileName); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(pidFileName), defaultDirPerms); err != nil {
		return fmt.Errorf("can't create PID file directory: %w", err)
	}

	// O_EXCL makes a concurrent creation fail.
	pidFile, err := os.OpenFile(pidFileName, os.O_EXCL|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return ErrLocked
		}
		return fmt.Errorf("can't create a new PID file: %w", err)
	}
	defer pidFile.Close()

	_, err = pidFile.WriteString(strconv.Itoa(os.Getpid()))
	return err
}

// Remove removes the PID file if it belongs to the current process.
func Remove(pidFileName string) error {
	pid, err := Read(pidFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if pid != os.Getpid() {
		return nil
	}
	return os.Remove(pidFileName)
}
