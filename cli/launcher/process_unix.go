//go:build unix

package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// ipcChildFd is the IPC channel descriptor number in the child: the first
// of exec.Cmd.ExtraFiles.
const ipcChildFd = 3

// newIPCChannel creates a socket pair and attaches one end to cmd as the
// Node.js IPC channel.
func newIPCChannel(cmd *exec.Cmd) (*ipcChannel, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create IPC channel: %w", err)
	}
	unix.CloseOnExec(fds[0])
	unix.CloseOnExec(fds[1])
	// Non-blocking descriptor is served by the runtime poller, so Close
	// interrupts a pending Read.
	if err := unix.SetNonblock(fds[0], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, fmt.Errorf("failed to create IPC channel: %w", err)
	}

	ch := &ipcChannel{
		parent: os.NewFile(uintptr(fds[0]), "ipc-parent"),
		child:  os.NewFile(uintptr(fds[1]), "ipc-child"),
	}
	cmd.ExtraFiles = append(cmd.ExtraFiles, ch.child)
	cmd.Env = append(cmd.Env,
		fmt.Sprintf("NODE_CHANNEL_FD=%d", ipcChildFd+len(cmd.ExtraFiles)-1),
		"NODE_CHANNEL_SERIALIZATION_MODE=json")
	return ch, nil
}

// exitStatus converts the process state into ExitStatus.
func exitStatus(state *os.ProcessState) ExitStatus {
	if state == nil {
		return ExitStatus{Code: -1}
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{Code: -1, Signal: unix.SignalName(ws.Signal())}
	}
	return ExitStatus{Code: state.ExitCode()}
}
