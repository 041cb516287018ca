package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// Log sources attached to emitted records.
const (
	LogSourceStdout = "stdout"
	LogSourceStderr = "stderr"
	LogSourceSystem = "system"
)

// LogRecord represents a structured log event ready for JSON encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Worker    string    `json:"worker"`
	Level     string    `json:"level"`
	Message   string    `json:"msg"`
	Source    string    `json:"source"`
}

// NewLogRecord builds a structured record for a worker log line, inferring a
// level from the message when the source did not supply one.
func NewLogRecord(worker, source, message string) LogRecord {
	level := "info"
	if source == LogSourceStderr {
		level = "warn"
	}
	if inferred := inferLogLevel(message); inferred != "" {
		level = inferred
	}
	if source == "" {
		source = LogSourceSystem
	}
	return LogRecord{
		Timestamp: time.Now(),
		Worker:    worker,
		Level:     level,
		Message:   message,
		Source:    source,
	}
}

var levelTokenPattern = regexp.MustCompile(`(?i)\b(error|warn|info)\b`)

func inferLogLevel(message string) string {
	matches := levelTokenPattern.FindStringSubmatch(message)
	if len(matches) < 2 {
		return ""
	}
	switch strings.ToLower(matches[1]) {
	case "error":
		return "error"
	case "warn":
		return "warn"
	case "info":
		return "info"
	default:
		return ""
	}
}

// EncodeLogRecord encodes a record to JSON, reporting errors to stderr if
// needed.
func EncodeLogRecord(enc *json.Encoder, stderr io.Writer, record LogRecord) {
	if enc == nil {
		return
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := enc.Encode(&record); err != nil {
		fmt.Fprintf(stderr, "error: encode log: %v\n", err)
	}
}
