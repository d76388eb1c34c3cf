package electron

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/build"
	"github.com/eldev/eldev/cli/launcher"
	"github.com/eldev/eldev/cli/util"
)

// DefaultStopTimeout is the time Electron is given to exit after it was
// interrupted on the repeated signal, before it is killed.
const DefaultStopTimeout = 5 * time.Second

// ErrNoExit is returned if the Electron event stream is closed without
// the exit event.
var ErrNoExit = errors.New("Electron event stream closed without exit")

// Logger receives the human readable command progress.
type Logger interface {
	StartProgress(msg string)
	StopProgress()
	Message(msg string)
	Section(lines []string)
	Error(err error)
}

// BuildHandle is a running watched build.
type BuildHandle interface {
	// Wait waits for the first build pass.
	Wait() error
	// Close stops rebuilding.
	Close() error
}

// Builder starts watched builds.
type Builder interface {
	Start(environment, outputPath string) (BuildHandle, error)
}

// ProcessHandle is a launched Electron process.
type ProcessHandle interface {
	// Events returns the process lifecycle events. The exit event is the last one.
	Events() <-chan launcher.Event
	// Signal sends a signal to the process.
	Signal(sig os.Signal) error
	// Stop interrupts the process and kills it if it is still alive after timeout.
	Stop(timeout time.Duration) error
}

// Launcher starts Electron.
type Launcher interface {
	Start(appPath string) (ProcessHandle, error)
}

// Command builds the application, runs Electron against the build output
// and removes the output after Electron exits.
type Command struct {
	// ProjectDir is the directory relative output paths are resolved against.
	ProjectDir string
	// Logger is required.
	Logger   Logger
	Builder  Builder
	Launcher Launcher
	// Remove removes the output directory. util.RemoveAll is used if nil.
	Remove func(path string) error
	// Signals received while Electron is running are relayed to it. The
	// repeated signal stops Electron. Signals received before the launch
	// are dropped.
	Signals <-chan os.Signal
	// StopTimeout is passed to ProcessHandle.Stop. DefaultStopTimeout is used if zero.
	StopTimeout time.Duration
}

// Run executes the build, launch and cleanup steps. Cleanup runs once the
// first two steps are done, whatever their outcome. The first build or
// launch error is returned, otherwise the cleanup error.
func (c *Command) Run(opts Options) (err error) {
	opts, err = opts.Resolve(c.ProjectDir)
	if err != nil {
		return err
	}

	var buildHandle BuildHandle
	defer func() {
		if buildHandle != nil {
			if closeErr := buildHandle.Close(); closeErr != nil {
				log.Debugf("Failed to stop watching: %s", closeErr)
			}
		}
		if cleanupErr := c.cleanup(opts); err == nil {
			err = cleanupErr
		}
	}()

	if buildHandle, err = c.buildAndWatch(opts); err != nil {
		return err
	}
	return c.startElectron(opts)
}

// buildAndWatch starts the watched build and waits for the first pass.
// The returned handle is not nil if the build was started, even if the
// first pass failed.
func (c *Command) buildAndWatch(opts Options) (BuildHandle, error) {
	handle, err := c.Builder.Start(opts.Environment, opts.OutputPath)
	if err != nil {
		return nil, err
	}

	// Progress starts after the watcher is created, so that its own output
	// does not stop the spinner.
	c.Logger.StartProgress("Building")
	if err := handle.Wait(); err != nil {
		c.Logger.StopProgress()
		return handle, err
	}
	return handle, nil
}

// startElectron launches Electron and reports its events until it exits.
func (c *Command) startElectron(opts Options) error {
	c.Logger.Message("Starting Electron...")

	c.dropPendingSignals()
	process, err := c.Launcher.Start(opts.OutputPath)
	if err != nil {
		return err
	}

	events := process.Events()
	relayed := false
	var stopDone chan error
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return ErrNoExit
			}
			if c.handleEvent(event, opts.Verbose) {
				return nil
			}
		case sig := <-c.Signals:
			switch {
			case stopDone != nil:
				log.Debugf("Electron is being stopped, %s is ignored", sig)
			case relayed:
				c.Logger.Message("Stopping Electron...")
				stopDone = make(chan error, 1)
				go func() {
					stopDone <- process.Stop(c.stopTimeout())
				}()
			default:
				log.Debugf("Relaying %s to Electron", sig)
				if err := process.Signal(sig); err != nil {
					c.Logger.Error(fmt.Errorf("failed to relay %s to Electron: %w", sig, err))
				}
				relayed = true
			}
		case err := <-stopDone:
			if err != nil {
				c.Logger.Error(fmt.Errorf("failed to stop Electron: %w", err))
			}
		}
	}
}

// dropPendingSignals discards signals received during the build.
func (c *Command) dropPendingSignals() {
	for {
		select {
		case sig := <-c.Signals:
			log.Debugf("%s received before Electron was started, ignored", sig)
		default:
			return
		}
	}
}

func (c *Command) stopTimeout() time.Duration {
	if c.StopTimeout > 0 {
		return c.StopTimeout
	}
	return DefaultStopTimeout
}

// handleEvent reports event and returns true on exit.
func (c *Command) handleEvent(event launcher.Event, verbose bool) bool {
	switch event.Kind {
	case launcher.EventClose:
		if verbose {
			c.Logger.Section([]string{
				"Electron closed",
				fmt.Sprintf("  - with code: %s", event.Status.CodeString()),
				fmt.Sprintf("  - with signal: %s", event.Status.SignalString()),
			})
		}
	case launcher.EventDisconnect:
		if verbose {
			c.Logger.Message("Electron disconnected.")
		}
	case launcher.EventError:
		c.Logger.Error(event.Err)
	case launcher.EventMessage:
		c.Logger.Message(event.Text())
	case launcher.EventExit:
		c.Logger.Message("Electron exited.")
		return true
	}
	return false
}

// cleanup removes the output directory. A missing directory is not an error.
func (c *Command) cleanup(opts Options) error {
	remove := c.Remove
	if remove == nil {
		remove = util.RemoveAll
	}
	log.Debugf("Removing %q", opts.OutputPath)
	return remove(opts.OutputPath)
}

// watchedBuilder adapts build.Builder to Builder.
type watchedBuilder struct {
	builder *build.Builder
}

// NewBuilder returns a Builder backed by builder.
func NewBuilder(builder *build.Builder) Builder {
	return watchedBuilder{builder: builder}
}

// Start starts a watched build.
func (b watchedBuilder) Start(environment, outputPath string) (BuildHandle, error) {
	wb, err := b.builder.Start(environment, outputPath)
	if err != nil {
		return nil, err
	}
	return wb, nil
}

// processLauncher adapts launcher.Launcher to Launcher.
type processLauncher struct {
	launcher *launcher.Launcher
}

// NewLauncher returns a Launcher backed by l.
func NewLauncher(l *launcher.Launcher) Launcher {
	return processLauncher{launcher: l}
}

// Start launches Electron.
func (l processLauncher) Start(appPath string) (ProcessHandle, error) {
	handle, err := l.launcher.Start(appPath)
	if err != nil {
		return nil, err
	}
	return handle, nil
}
