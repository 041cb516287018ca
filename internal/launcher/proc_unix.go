//go:build !windows

package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// prepare places the child into its own process group so the group can be
// signalled as a unit.
func (h *Handle) prepare(cmd *exec.Cmd) error {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return nil
}

func (h *Handle) release() {}

// Interrupt reports whether interrupt delivery was handled by a dedicated
// mechanism. POSIX platforms deliver SIGINT through the regular signal path,
// so this never handles it.
func (h *Handle) Interrupt() (bool, error) {
	return false, nil
}

// Terminate requests a graceful shutdown with the platform's standard
// terminate signal.
func (h *Handle) Terminate() error {
	return h.cmd.Process.Signal(syscall.SIGTERM)
}

// ProcessGroup resolves the process-group id for pid.
func ProcessGroup(pid int) (int, error) {
	return syscall.Getpgid(pid)
}

// SignalProcessGroup delivers sig to every member of the group.
func SignalProcessGroup(pgid int, sig os.Signal) error {
	signum, ok := sig.(syscall.Signal)
	if !ok {
		if sig == os.Interrupt {
			signum = syscall.SIGINT
		} else if sig == os.Kill {
			signum = syscall.SIGKILL
		} else {
			return fmt.Errorf("unsupported signal %v", sig)
		}
	}
	return syscall.Kill(-pgid, signum)
}

// IsBenignSignalError reports whether a signalling failure only means the
// target had already exited.
func IsBenignSignalError(err error) bool {
	return errors.Is(err, syscall.ESRCH) || errors.Is(err, os.ErrProcessDone)
}

// IsBenignKillError reports whether a kill failure only means the target was
// already gone.
func IsBenignKillError(err error) bool {
	return errors.Is(err, syscall.ESRCH) || errors.Is(err, os.ErrProcessDone)
}
