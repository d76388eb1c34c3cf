package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/util"
)

const (
	// defaultExecutable is the Electron binary name looked up in PATH.
	defaultExecutable = "electron"
	// eventsBufferSize is a capacity of the events channel.
	eventsBufferSize = 64
	// ipcDrainTimeout is the time given to the IPC reader to consume
	// buffered messages after the process has ended.
	ipcDrainTimeout = time.Second
)

// Launcher starts Electron processes.
type Launcher struct {
	// Executable is the Electron binary. If empty, ProjectDir/node_modules/.bin/electron
	// is used if present, else electron is looked up in PATH.
	Executable string
	// Args are passed to Electron before the application path.
	Args []string
	// ProjectDir is the working directory of the process.
	ProjectDir string
	// Verbose enables Electron logging to stderr.
	Verbose bool
	// Stdout and Stderr receive the process output. Nil means os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// StartError is a failure to start the process.
type StartError struct {
	Err error
}

// Error returns error message.
func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start Electron: %s", e.Err)
}

// Unwrap returns the cause.
func (e *StartError) Unwrap() error {
	return e.Err
}

// Handle is a launched process. Lifecycle events are delivered through
// Events. EventExit is the last event, after it the channel is closed.
type Handle struct {
	pc     *processController
	events chan Event
}

// resolveExecutable returns the Electron binary to run.
func (l *Launcher) resolveExecutable() (string, error) {
	if l.Executable != "" {
		return exec.LookPath(l.Executable)
	}

	localElectron := filepath.Join(l.ProjectDir, "node_modules", ".bin", defaultExecutable)
	if util.IsRegularFile(localElectron) {
		return localElectron, nil
	}
	return exec.LookPath(defaultExecutable)
}

// Start launches Electron with appPath as the application to run.
func (l *Launcher) Start(appPath string) (*Handle, error) {
	executable, err := l.resolveExecutable()
	if err != nil {
		return nil, &StartError{Err: err}
	}

	args := append(append([]string{}, l.Args...), appPath)
	cmd := exec.Command(executable, args...)
	cmd.Dir = l.ProjectDir
	cmd.Stdout = l.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = l.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Env = os.Environ()
	if l.Verbose {
		cmd.Env = append(cmd.Env,
			"ELECTRON_ENABLE_LOGGING=true",
			"ELECTRON_ENABLE_STACK_DUMPING=true")
	}

	ipc, err := newIPCChannel(cmd)
	if err != nil {
		return nil, &StartError{Err: err}
	}

	log.Debugf("Running %s", cmd.String())
	pc, err := newProcessController(cmd)
	if err != nil {
		if ipc != nil {
			ipc.close()
		}
		return nil, &StartError{Err: err}
	}
	if ipc != nil {
		ipc.closeChild()
	}
	log.Debugf("Electron started (PID: %d)", cmd.Process.Pid)

	h := &Handle{pc: pc, events: make(chan Event, eventsBufferSize)}
	go h.run(ipc)
	return h, nil
}

// Events returns the lifecycle events channel.
func (h *Handle) Events() <-chan Event {
	return h.events
}

// Signal sends a signal to the process.
func (h *Handle) Signal(sig os.Signal) error {
	return h.pc.SendSignal(sig)
}

// Stop interrupts the process and kills it if it is still alive after timeout.
func (h *Handle) Stop(timeout time.Duration) error {
	err := h.pc.Stop(timeout)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

// run waits for the process and emits the lifecycle events.
func (h *Handle) run(ipc *ipcChannel) {
	defer close(h.events)

	var readerDone chan struct{}
	if ipc != nil {
		readerDone = make(chan struct{})
		go func() {
			defer close(readerDone)
			ipc.read(h.emit)
		}()
	}

	err := h.pc.Wait()

	if ipc != nil {
		// The channel may be kept open by an orphaned descendant.
		select {
		case <-readerDone:
		case <-time.After(ipcDrainTimeout):
		}
		ipc.close()
		<-readerDone
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		h.emit(Event{Kind: EventError, Err: err})
	}

	status := exitStatus(h.pc.cmd.ProcessState)
	h.emit(Event{Kind: EventClose, Status: status})
	h.emit(Event{Kind: EventExit, Status: status})
}

func (h *Handle) emit(event Event) {
	h.events <- event
}
