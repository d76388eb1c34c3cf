//go:build unix

package pidfile

import (
	"golang.org/x/sys/unix"
)

// IsProcessAlive checks if the process is alive.
func IsProcessAlive(pid int) bool {
	// The signal 0 performs the existence and permission checks only.
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
