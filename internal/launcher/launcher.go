package launcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// Options configures a launch. Env entries override or extend the inherited
// environment; Dir sets the working directory. Stdout and Stderr, when
// non-nil, receive the worker's output streams.
type Options struct {
	Env    map[string]string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// LaunchError reports that the OS failed to create the worker process.
type LaunchError struct {
	Argv0 string
	Err   error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Argv0, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Handle is the owning reference to a launched worker process.
type Handle struct {
	cmd *exec.Cmd
	pid int

	done     chan struct{}
	exitCode int

	// Windows interrupt event; zero everywhere else. The reaper goroutine
	// releases it on exit, so every access goes through interruptMu.
	interruptMu    sync.Mutex
	interruptEvent uintptr
}

// Launch starts the process described by argv and returns its handle. The
// caller is responsible for resolving a process-group id afterwards; group
// lookup may require a syscall keyed off the returned pid.
func Launch(argv []string, opts Options) (*Handle, error) {
	if len(argv) == 0 {
		return nil, &LaunchError{Argv0: "", Err: fmt.Errorf("empty command")}
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	env := os.Environ()
	for k, v := range opts.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env

	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	h := &Handle{cmd: cmd, done: make(chan struct{})}
	if err := h.prepare(cmd); err != nil {
		return nil, &LaunchError{Argv0: argv[0], Err: err}
	}

	if err := cmd.Start(); err != nil {
		h.release()
		return nil, &LaunchError{Argv0: argv[0], Err: err}
	}
	h.pid = cmd.Process.Pid

	go func() {
		err := cmd.Wait()
		h.exitCode = exitCodeFromWait(cmd, err)
		h.release()
		close(h.done)
	}()

	return h, nil
}

// Pid returns the process id assigned at launch.
func (h *Handle) Pid() int { return h.pid }

// InterruptEvent returns the OS handle of the interrupt event associated with
// the process, or 0 when the platform delivers interrupts as signals or the
// event has been released after exit.
func (h *Handle) InterruptEvent() uintptr {
	h.interruptMu.Lock()
	defer h.interruptMu.Unlock()
	return h.interruptEvent
}

// Poll reports the exit code once the process has terminated. While the
// process is still alive it returns exited=false. The transition is
// monotonic.
func (h *Handle) Poll() (code int, exited bool) {
	select {
	case <-h.done:
		return h.exitCode, true
	default:
		return 0, false
	}
}

// Wait blocks until the process has been reaped and returns its exit code.
func (h *Handle) Wait() int {
	<-h.done
	return h.exitCode
}

// Signal delivers sig to the process. Callers preferring group delivery
// should use SignalProcessGroup with the pgid resolved at launch time.
func (h *Handle) Signal(sig os.Signal) error {
	return h.cmd.Process.Signal(sig)
}

// Kill forcibly terminates the process without touching its group.
func (h *Handle) Kill() error {
	return h.cmd.Process.Kill()
}

func exitCodeFromWait(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}
