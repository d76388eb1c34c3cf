package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

var (
	spinnerPicture    = spinner.CharSets[9]
	spinnerUpdateTime = 100 * time.Millisecond
)

// Logger prints human readable progress and status text.
// Only one progress indicator is active at a time: any other output
// stops it first, so messages never interleave with the spinner line.
type Logger struct {
	// entry is a sink for all text except the spinner.
	entry log.Interface
	// out is a spinner output, nil if the spinner is disabled.
	out io.Writer

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// New creates a logger writing to entry. A spinner is drawn on out while
// progress is active. Pass a nil out to disable the spinner.
func New(entry log.Interface, out io.Writer) *Logger {
	return &Logger{entry: entry, out: out}
}

// NewConsole creates a logger for the process-wide apex logger. The spinner
// is enabled only if stdout is a terminal.
func NewConsole() *Logger {
	var out io.Writer
	if isatty.IsTerminal(os.Stdout.Fd()) {
		out = os.Stdout
	}
	return New(log.Log, out)
}

// StartProgress shows a progress indicator with msg.
func (l *Logger) StartProgress(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopProgress()
	if l.out == nil {
		l.entry.Info(msg)
		return
	}

	l.spinner = spinner.New(spinnerPicture, spinnerUpdateTime, spinner.WithWriter(l.out))
	l.spinner.Suffix = fmt.Sprintf(" %s", strings.TrimSpace(msg))
	l.spinner.Start()
}

// StopProgress stops the progress indicator if it is active.
func (l *Logger) StopProgress() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopProgress()
}

func (l *Logger) stopProgress() {
	if l.spinner != nil {
		l.spinner.Stop()
		l.spinner = nil
	}
}

// Message prints a status message.
func (l *Logger) Message(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopProgress()
	l.entry.Info(msg)
}

// Section prints a multi-line block as one message.
func (l *Logger) Section(lines []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopProgress()
	l.entry.Info(strings.Join(lines, "\n"))
}

// Error prints an error.
func (l *Logger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopProgress()
	l.entry.Error(err.Error())
}
