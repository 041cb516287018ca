//go:build !windows

package launcher

import (
	"syscall"
	"testing"
)

func TestChildLeadsOwnProcessGroup(t *testing.T) {
	h, err := Launch([]string{"/bin/sh", "-c", "sleep 30"}, Options{})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}

	pgid, err := ProcessGroup(h.Pid())
	if err != nil {
		t.Fatalf("process group lookup: %v", err)
	}
	if pgid != h.Pid() {
		t.Fatalf("expected child to lead its own group, pid=%d pgid=%d", h.Pid(), pgid)
	}

	if err := SignalProcessGroup(pgid, syscall.SIGKILL); err != nil {
		t.Fatalf("signal group: %v", err)
	}
	if code := h.Wait(); code == 0 {
		t.Fatalf("expected terminated status, got %d", code)
	}
}

func TestGroupSignalToExitedProcessIsBenign(t *testing.T) {
	h, err := Launch([]string{"/bin/sh", "-c", "exit 0"}, Options{})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	pgid, err := ProcessGroup(h.Pid())
	if err != nil {
		t.Skipf("group lookup raced child exit: %v", err)
	}
	h.Wait()

	err = SignalProcessGroup(pgid, syscall.SIGTERM)
	if err == nil {
		t.Fatal("expected ESRCH signalling a reaped group")
	}
	if !IsBenignSignalError(err) {
		t.Fatalf("expected benign error, got %v", err)
	}
}

func TestTerminateDeliversSigterm(t *testing.T) {
	h, err := Launch([]string{"/bin/sh", "-c", "sleep 30"}, Options{})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}

	if err := h.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	code := h.Wait()
	if code == 0 {
		t.Fatalf("expected terminated status, got %d", code)
	}
}

func TestInterruptNotRemappedOnUnix(t *testing.T) {
	h, err := Launch([]string{"/bin/sh", "-c", "sleep 1"}, Options{})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	defer func() {
		_ = h.Kill()
		h.Wait()
	}()

	handled, err := h.Interrupt()
	if err != nil {
		t.Fatalf("interrupt: %v", err)
	}
	if handled {
		t.Fatal("unix interrupt must go through the generic signal path")
	}
}
