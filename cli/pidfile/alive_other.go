//go:build !unix

package pidfile

import "os"

// IsProcessAlive checks if the process is alive.
func IsProcessAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	process.Release()
	return true
}
