package cli

import (
	"bytes"
	"strings"
)

// logLineWriter splits a worker output stream into lines and hands each one
// to emit. Partial lines are buffered until the next write; Close flushes any
// trailing fragment.
type logLineWriter struct {
	emit func(line string)
	buf  bytes.Buffer
}

func newLogLineWriter(emit func(line string)) *logLineWriter {
	return &logLineWriter{emit: emit}
}

func (w *logLineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line; keep it for the next write.
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

func (w *logLineWriter) Close() error {
	if w.buf.Len() > 0 {
		w.emit(strings.TrimRight(w.buf.String(), "\r\n"))
		w.buf.Reset()
	}
	return nil
}
