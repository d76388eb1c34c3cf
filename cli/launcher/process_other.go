//go:build !unix

package launcher

import (
	"os"
	"os/exec"
)

// newIPCChannel returns no channel: the IPC channel is supported on unix only.
func newIPCChannel(cmd *exec.Cmd) (*ipcChannel, error) {
	return nil, nil
}

// exitStatus converts the process state into ExitStatus.
func exitStatus(state *os.ProcessState) ExitStatus {
	if state == nil {
		return ExitStatus{Code: -1}
	}
	return ExitStatus{Code: state.ExitCode()}
}
