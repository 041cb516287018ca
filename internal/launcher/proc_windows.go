//go:build windows

package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// InterruptEventEnv names the environment variable through which the child
// receives the handle of its interrupt event.
const InterruptEventEnv = "WARDEN_INTERRUPT_EVENT"

// prepare detaches the child into a new process group and creates the
// inheritable event used for interrupt delivery, publishing its handle to the
// child through the environment.
func (h *Handle) prepare(cmd *exec.Cmd) error {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}

	sa := &windows.SecurityAttributes{InheritHandle: 1}
	sa.Length = uint32(unsafe.Sizeof(*sa))
	event, err := windows.CreateEvent(sa, 0, 0, nil)
	if err != nil {
		return fmt.Errorf("create interrupt event: %w", err)
	}
	h.interruptEvent = uintptr(event)

	cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%d", InterruptEventEnv, h.interruptEvent))
	return nil
}

func (h *Handle) release() {
	h.interruptMu.Lock()
	defer h.interruptMu.Unlock()
	if h.interruptEvent != 0 {
		_ = windows.CloseHandle(windows.Handle(h.interruptEvent))
		h.interruptEvent = 0
	}
}

// Interrupt signals the interrupt event associated with the process. This is
// always the delivery mechanism on Windows; the generic signal path cannot
// express an interrupt here. A zeroed event means the process already exited
// and the reaper released it, which surfaces as os.ErrProcessDone.
func (h *Handle) Interrupt() (bool, error) {
	h.interruptMu.Lock()
	defer h.interruptMu.Unlock()
	if h.interruptEvent == 0 {
		return true, os.ErrProcessDone
	}
	if err := windows.SetEvent(windows.Handle(h.interruptEvent)); err != nil {
		return true, fmt.Errorf("set interrupt event: %w", err)
	}
	return true, nil
}

// Terminate forcibly ends the process. Windows has no catchable terminate
// signal, so this is equivalent to Kill.
func (h *Handle) Terminate() error {
	return h.cmd.Process.Kill()
}

var errNoProcessGroups = errors.New("process groups not supported on windows")

// ProcessGroup always fails: Windows offers no group id that can be
// signalled as a unit, so callers leave the pgid absent.
func ProcessGroup(pid int) (int, error) {
	return 0, errNoProcessGroups
}

// SignalProcessGroup is unreachable when ProcessGroup never yields a group.
func SignalProcessGroup(pgid int, sig os.Signal) error {
	return errNoProcessGroups
}

// IsBenignSignalError reports whether a signalling failure only means the
// target had already exited.
func IsBenignSignalError(err error) bool {
	return errors.Is(err, os.ErrProcessDone)
}

// IsBenignKillError reports whether a kill failure only means the target was
// already gone. Killing an exited process surfaces as access denied here.
func IsBenignKillError(err error) bool {
	return errors.Is(err, os.ErrProcessDone) || errors.Is(err, windows.ERROR_ACCESS_DENIED)
}
