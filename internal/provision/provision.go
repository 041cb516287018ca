// Package provision owns the lifecycle of a single worker process: preparing
// launch arguments, starting the process, serving control operations and
// persisting enough state to describe the process across controller restarts.
package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Provisioner is the uniform lifecycle contract served to supervising layers.
// Implementations manage exactly one worker process at a time. Callers with
// multiple logical owners must serialize control operations against a single
// instance themselves.
type Provisioner interface {
	// HasProcess reports whether a live process handle is currently held.
	HasProcess() bool

	// Poll reports the worker's exit code without blocking. While the
	// worker is alive it returns exited=false. When no process is tracked
	// it reports (0, true): absence of a process is not an error for
	// liveness queries, so a reaped or never-launched worker is
	// indistinguishable from one that exited cleanly.
	Poll() (code int, exited bool)

	// Wait blocks until the worker has exited, reaps it, and returns its
	// exit code. It imposes no internal deadline; cancel ctx to bound it.
	Wait(ctx context.Context) (int, error)

	// Signal delivers sig to the worker, preferring its process group.
	Signal(sig os.Signal) error

	// Kill forcibly terminates the worker process.
	Kill() error

	// Terminate requests a graceful shutdown of the worker process.
	Terminate() error

	// Cleanup releases any resources held beyond the process handle.
	Cleanup() error

	// Prepare resolves the final launch arguments for Start.
	Prepare(req LaunchRequest) (ResolvedLaunch, error)

	// Start launches the worker from previously prepared arguments.
	Start(resolved ResolvedLaunch) error

	// Serialize captures the persistable description of the worker.
	Serialize() Record

	// Restore repopulates the descriptive fields from a persisted record.
	// It does not recreate a live process handle; restored instances are
	// observe-only.
	Restore(rec Record)

	// ConnectionInfo returns the negotiated connection parameters, when a
	// connection manager was consulted during Prepare.
	ConnectionInfo() map[string]any

	// ShutdownRequested is invoked after a graceful shutdown has been
	// requested through an out-of-band channel. The local implementation
	// has nothing to do here; sibling-process provisioners hook it.
	ShutdownRequested() error
}

// ConnectionManager is the legacy collaborator consulted during Prepare. It
// carries its own transport and address bookkeeping and its own
// command-formatting step. It is never used during steady-state control.
type ConnectionManager interface {
	Transport() string
	IP() string
	WriteConnectionFile() error
	ConnectionInfo() map[string]any
	FormatCommand(extraArgs []string) []string
}

// LaunchRequest is the input contract from the launch requester.
type LaunchRequest struct {
	// Command overrides the spec's argv when non-empty.
	Command []string

	// ExtraArgs are appended to the resolved command.
	ExtraArgs []string

	// Env overrides or extends the spec's environment.
	Env map[string]string

	// Dir overrides the spec's working directory.
	Dir string

	// Manager, when set, selects the legacy preparation path.
	Manager ConnectionManager

	// Stdout and Stderr receive the worker's output streams.
	Stdout io.Writer
	Stderr io.Writer
}

// ResolvedLaunch carries the final argv and sanitized launcher options
// produced by Prepare. Controller-internal inputs (worker id, manager,
// extra arguments) never reach the launcher.
type ResolvedLaunch struct {
	Argv    []string
	Options LaunchOptions
}

// LaunchOptions is the subset of launch configuration the launcher
// understands.
type LaunchOptions struct {
	Env    map[string]string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// ConfigurationError reports a worker whose declared bind address is not
// locally reachable. This controller only supervises local processes, so it
// refuses to launch such a worker.
type ConfigurationError struct {
	Address    string
	LocalAddrs []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"can only launch a worker on a local interface, not %s (valid addresses: %s)",
		e.Address, strings.Join(e.LocalAddrs, ", "),
	)
}
