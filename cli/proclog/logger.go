package proclog

import (
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOpts describes the logger options.
type LoggerOpts struct {
	// Filename is the name of log file.
	Filename string
	// MaxSize is the maximum size in megabytes of the log file
	// before it gets rotated.
	MaxSize int
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int
	// MaxAge is the maximum number of days to retain old log files
	// based on the timestamp encoded in their filename.
	MaxAge int
}

// Logger is a log file of a launched process.
// Raw process output goes through Writer(), session notes are written
// with the embedded logger methods and carry a timestamp.
// A Logger can be used simultaneously from multiple goroutines.
type Logger struct {
	// Embedded logger, the functionality of which will be extended.
	*log.Logger
	// ljLogger is an io.WriteCloser that writes to the specified filename.
	// Used to add logrotate functionality to log.Logger.
	ljLogger *lumberjack.Logger
}

// NewLogger creates a new object of Logger.
func NewLogger(opts *LoggerOpts) *Logger {
	ljLogger := &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   false,
		LocalTime:  true,
	}
	return &Logger{Logger: log.New(ljLogger, "", log.LstdFlags), ljLogger: ljLogger}
}

// StartSession moves a non-empty log file aside, so every process session
// starts with its own file, and writes the session header.
func (logger *Logger) StartSession(header string) error {
	if fileInfo, err := os.Stat(logger.ljLogger.Filename); err == nil && fileInfo.Size() > 0 {
		if err := logger.Rotate(); err != nil {
			return err
		}
	}
	logger.Println(header)
	return nil
}

// Rotate causes Logger to close the existing log file and immediately create a
// new one. After rotating, this initiates removal of old log
// files according to the configuration.
func (logger *Logger) Rotate() error {
	return logger.ljLogger.Rotate()
}

// Close implements io.Closer, and closes the current logfile.
func (logger *Logger) Close() error {
	return logger.ljLogger.Close()
}
