package util

import (
	"bytes"
	"io"
	"regexp"

	"github.com/fatih/color"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	// chromiumLevelColors color whole lines of Chromium logging by severity.
	chromiumLevelColors = map[string]*color.Color{
		"FATAL":   errorColor,
		"ERROR":   errorColor,
		"WARNING": color.New(color.FgYellow),
	}

	// Chromium log line: [pid:MMDD/HHMMSS.uuu:LEVEL:file.cc(line)] message.
	chromiumLevelRgx = regexp.MustCompile(`^\[[^\]]*:(FATAL|ERROR|WARNING):[^\]]*\]`)
)

// prefixWriter writes every non-empty line of the input as a separate
// prefixed line.
type prefixWriter struct {
	writer      io.Writer
	prefixColor color.Color
	prefix      string
	buf         bytes.Buffer
}

// NewColorizedPrefixWriter creates a writer that prepends a colored prefix to
// every line. Chromium log lines of warning and error severity are colored
// as a whole.
func NewColorizedPrefixWriter(writer io.Writer, prefixColor color.Color, prefix string) io.Writer {
	pw := &prefixWriter{writer: writer, prefixColor: prefixColor, prefix: prefix}
	pw.buf.Grow(1024)
	return pw
}

// lineColor returns the color of a Chromium log line, nil for other lines.
func lineColor(line []byte) *color.Color {
	submatch := chromiumLevelRgx.FindSubmatch(line)
	if submatch == nil {
		return nil
	}
	return chromiumLevelColors[string(submatch[1])]
}

// Write is an io.Writer implementation. Errors of the underlying writer
// are ignored.
func (pw *prefixWriter) Write(msg []byte) (int, error) {
	for _, line := range bytes.Split(msg, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		pw.buf.Reset()
		pw.prefixColor.Fprint(&pw.buf, pw.prefix)
		if clr := lineColor(line); clr != nil {
			clr.Fprintln(&pw.buf, string(line))
		} else {
			pw.buf.Write(line)
			pw.buf.WriteByte('\n')
		}
		pw.writer.Write(pw.buf.Bytes())
	}
	return len(msg), nil
}
