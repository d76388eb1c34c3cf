package launcher

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ipcChannel is the parent side of a Node.js IPC channel with JSON
// serialization: every message is a JSON value followed by a newline.
type ipcChannel struct {
	parent *os.File
	child  *os.File

	closeOnce sync.Once
}

// internalMessage is used to detect Node.js internal messages.
type internalMessage struct {
	Cmd string `json:"cmd"`
}

// isInternal reports whether msg is a Node.js internal message, which is
// never delivered to "message" listeners.
func isInternal(msg []byte) bool {
	if !bytes.HasPrefix(bytes.TrimSpace(msg), []byte("{")) {
		return false
	}
	var internal internalMessage
	if err := json.Unmarshal(msg, &internal); err != nil {
		return false
	}
	return strings.HasPrefix(internal.Cmd, "NODE_")
}

// closeChild closes the child end in the parent process after the child
// has inherited it.
func (ch *ipcChannel) closeChild() {
	ch.child.Close()
}

// close closes the parent end. A pending read returns.
func (ch *ipcChannel) close() {
	ch.closeOnce.Do(func() {
		ch.parent.Close()
		ch.child.Close()
	})
}

// read emits message events until the channel is closed, then emits
// the disconnect event.
func (ch *ipcChannel) read(emit func(Event)) {
	reader := bufio.NewReader(ch.parent)
	for {
		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			ch.handleLine(line, emit)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				emit(Event{Kind: EventError, Err: fmt.Errorf("IPC channel: %w", err)})
			}
			break
		}
	}
	emit(Event{Kind: EventDisconnect})
}

func (ch *ipcChannel) handleLine(line []byte, emit func(Event)) {
	line = bytes.TrimSpace(line)
	if !json.Valid(line) {
		emit(Event{Kind: EventError, Err: fmt.Errorf("IPC channel: malformed message %q",
			line)})
		return
	}
	if isInternal(line) {
		return
	}
	emit(Event{Kind: EventMessage, Message: json.RawMessage(append([]byte{}, line...))})
}
