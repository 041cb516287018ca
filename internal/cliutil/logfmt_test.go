package cliutil

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLogRecordInfersLevel(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		message  string
		expected string
	}{
		{name: "errorToken", source: LogSourceStdout, message: "[ERROR] failed to bind", expected: "error"},
		{name: "warnToken", source: LogSourceStdout, message: "WARN worker requires attention", expected: "warn"},
		{name: "infoToken", source: LogSourceStdout, message: "info: worker ready", expected: "info"},
		{name: "noTokenDefaults", source: LogSourceStdout, message: "worker started", expected: "info"},
		{name: "stderrDefaultsToWarn", source: LogSourceStderr, message: "something happened", expected: "warn"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record := NewLogRecord("w1", tc.source, tc.message)
			if record.Level != tc.expected {
				t.Fatalf("expected level %q, got %q", tc.expected, record.Level)
			}
		})
	}
}

func TestNewLogRecordDefaultsSource(t *testing.T) {
	record := NewLogRecord("w1", "", "controller event")
	if record.Source != LogSourceSystem {
		t.Fatalf("expected system source, got %q", record.Source)
	}
	if record.Worker != "w1" {
		t.Fatalf("expected worker name, got %q", record.Worker)
	}
}

func TestEncodeLogRecordWritesJSON(t *testing.T) {
	var out bytes.Buffer
	var errBuf bytes.Buffer

	EncodeLogRecord(json.NewEncoder(&out), &errBuf, NewLogRecord("w1", LogSourceStdout, "hello"))

	if errBuf.Len() != 0 {
		t.Fatalf("unexpected stderr output: %s", errBuf.String())
	}

	var record LogRecord
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("failed to unmarshal log record: %v", err)
	}
	if record.Message != "hello" {
		t.Fatalf("unexpected message %q", record.Message)
	}
	if record.Timestamp.IsZero() {
		t.Fatal("expected a timestamp to be assigned")
	}
}

func TestEncodeLogRecordNilEncoder(t *testing.T) {
	var errBuf bytes.Buffer
	EncodeLogRecord(nil, &errBuf, LogRecord{Message: "dropped"})
	if errBuf.Len() != 0 {
		t.Fatalf("unexpected stderr output: %s", errBuf.String())
	}
}
