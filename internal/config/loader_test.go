package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSpec(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

func TestLoadResolvesDefaults(t *testing.T) {
	path := writeSpec(t, `
argv: ["python", "-m", "worker"]
`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "worker" {
		t.Fatalf("expected name derived from filename, got %q", spec.Name)
	}
	if spec.InterruptMode != SignalInterrupt {
		t.Fatalf("expected default interrupt mode, got %q", spec.InterruptMode)
	}
	if spec.ResolvedWorkdir != filepath.Dir(path) {
		t.Fatalf("expected workdir to default to the spec directory, got %q", spec.ResolvedWorkdir)
	}
}

func TestLoadExpandsEnvValues(t *testing.T) {
	t.Setenv("WARDEN_TEST_HOME", "/opt/worker")
	path := writeSpec(t, `
name: expander
argv: ["worker"]
env:
  HOME_DIR: ${WARDEN_TEST_HOME}/data
`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Env["HOME_DIR"] != "/opt/worker/data" {
		t.Fatalf("env not expanded: %q", spec.Env["HOME_DIR"])
	}
}

func TestLoadResolvesRelativeWorkdir(t *testing.T) {
	path := writeSpec(t, `
name: relative
argv: ["worker"]
workdir: data
`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := filepath.Join(filepath.Dir(path), "data")
	if spec.ResolvedWorkdir != want {
		t.Fatalf("workdir = %q, want %q", spec.ResolvedWorkdir, want)
	}
}

func TestLoadParsesPollInterval(t *testing.T) {
	path := writeSpec(t, `
name: ticker
argv: ["worker"]
pollInterval: 250ms
`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !spec.PollInterval.IsSet() || spec.PollInterval.Duration != 250*time.Millisecond {
		t.Fatalf("unexpected poll interval %v", spec.PollInterval.Duration)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeSpec(t, `
name: strict
argv: ["worker"]
replicas: 3
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestLoadRejectsEmptyArgv(t *testing.T) {
	path := writeSpec(t, `
name: empty
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected empty argv to be rejected")
	}
}

func TestLoadRejectsUnknownInterruptMode(t *testing.T) {
	path := writeSpec(t, `
name: badmode
argv: ["worker"]
interruptMode: carrier-pigeon
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown interrupt mode to be rejected")
	}
}
