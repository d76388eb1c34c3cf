package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// newProcessController create new process controller.
func newProcessController(cmd *exec.Cmd) (*processController, error) {
	pc := processController{cmd: cmd}
	if err := pc.start(); err != nil {
		return nil, err
	}
	return &pc, nil
}

// processController represents a command being run.
type processController struct {
	// Cmd represents an external command to run.
	cmd *exec.Cmd
	// waitMutex is used to prevent several invokes of the "Wait"
	// for the same process.
	// https://github.com/golang/go/issues/28461
	waitMutex sync.Mutex
	// waitErr is the result of the completed "Wait".
	waitErr error
	// done represent whether the process was stopped.
	done atomic.Bool
}

// start starts the process.
func (pc *processController) start() error {
	if err := pc.cmd.Start(); err != nil {
		return err
	}
	pc.done.Store(false)
	return nil
}

// Wait waits for the process to complete. Repeated calls return the
// result of the first one.
func (pc *processController) Wait() error {
	pc.waitMutex.Lock()
	defer pc.waitMutex.Unlock()
	if pc.done.Load() {
		return pc.waitErr
	}
	pc.waitErr = pc.cmd.Wait()
	pc.done.Store(true)
	return pc.waitErr
}

// SendSignal sends a signal to the process.
func (pc *processController) SendSignal(sig os.Signal) error {
	if pc.cmd == nil || pc.cmd.Process == nil {
		return fmt.Errorf("the process hasn't started yet")
	}
	return pc.cmd.Process.Signal(sig)
}

// IsAlive verifies that the process is alive by sending a "0" signal.
func (pc *processController) IsAlive() bool {
	if pc.done.Load() {
		return false
	}

	return pc.SendSignal(syscall.Signal(0)) == nil
}

// Stop terminates the process.
//
// timeout - the time that was provided to the process
// to terminate correctly before the "SIGKILL" signal is used.
func (pc *processController) Stop(waitTimeout time.Duration) error {
	if !pc.IsAlive() {
		return nil
	}

	// Create a channel to receive an indication of the termination
	// of the process.
	waitDone := make(chan error, 1)
	go func() {
		waitDone <- pc.Wait()
	}()

	// Trying to terminate the process by using a "SIGINT" signal.
	// In case of failure a "SIGKILL" signal will be used.
	if err := pc.SendSignal(os.Interrupt); err != nil {
		return fmt.Errorf("failed to send SIGINT to the process: %s", err)
	}

	// Terminate the process at any cost.
	select {
	case <-time.After(waitTimeout):
		// Send "SIGKILL" signal
		if err := pc.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("failed to send SIGKILL to the process: %s", err)
		}
		// Wait for the process to terminate.
		<-waitDone
		return nil
	case err := <-waitDone:
		return err
	}
}
