package launcher

import (
	"encoding/json"
	"strconv"
)

// EventKind is a lifecycle signal name of the launched process.
type EventKind int

const (
	// EventClose is emitted when the process has ended and its stdio is closed.
	EventClose EventKind = iota
	// EventDisconnect is emitted when the IPC channel is closed.
	EventDisconnect
	// EventError is emitted on a process runtime error.
	EventError
	// EventExit is emitted when the process has ended. It is always the last event.
	EventExit
	// EventMessage is emitted on a message received over the IPC channel.
	EventMessage
)

var eventKindNames = [...]string{
	EventClose:      "close",
	EventDisconnect: "disconnect",
	EventError:      "error",
	EventExit:       "exit",
	EventMessage:    "message",
}

// String returns the event name.
func (kind EventKind) String() string {
	if int(kind) < 0 || int(kind) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[kind]
}

// ExitStatus describes how the process has ended.
type ExitStatus struct {
	// Code is the exit code, -1 if the process was terminated by a signal.
	Code int
	// Signal is the name of the terminating signal, empty if none.
	Signal string
}

// CodeString returns the exit code or "null" if the process was terminated by a signal.
func (status ExitStatus) CodeString() string {
	if status.Signal != "" {
		return "null"
	}
	return strconv.Itoa(status.Code)
}

// SignalString returns the signal name or "null" if the process exited normally.
func (status ExitStatus) SignalString() string {
	if status.Signal == "" {
		return "null"
	}
	return status.Signal
}

// Event is a lifecycle signal of the launched process.
type Event struct {
	// Kind is the event name.
	Kind EventKind
	// Status is set for EventClose and EventExit.
	Status ExitStatus
	// Err is set for EventError.
	Err error
	// Message is a JSON value received with EventMessage.
	Message json.RawMessage
}

// Text returns the message payload as text: JSON strings are unquoted,
// other values are returned as is.
func (event Event) Text() string {
	var str string
	if err := json.Unmarshal(event.Message, &str); err == nil {
		return str
	}
	return string(event.Message)
}
