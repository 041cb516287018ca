//go:build windows

package launcher

import "testing"

func TestInterruptEventPublishedToChild(t *testing.T) {
	h, err := Launch([]string{"cmd", "/c", "ping -n 10 127.0.0.1 >NUL"}, Options{})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	defer func() {
		_ = h.Kill()
		h.Wait()
	}()

	if h.InterruptEvent() == 0 {
		t.Fatal("expected a live interrupt event while the child runs")
	}

	handled, err := h.Interrupt()
	if !handled {
		t.Fatal("interrupt must be handled by the event mechanism")
	}
	if err != nil {
		t.Fatalf("interrupt: %v", err)
	}
}

func TestInterruptAfterExitIsBenign(t *testing.T) {
	h, err := Launch([]string{"cmd", "/c", "exit 0"}, Options{})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	h.Wait()

	// The reaper releases the event before it publishes the exit, so a
	// returned Wait implies the handle is gone.
	if h.InterruptEvent() != 0 {
		t.Fatal("expected the interrupt event to be released after exit")
	}

	handled, err := h.Interrupt()
	if !handled {
		t.Fatal("interrupt must be handled by the event mechanism")
	}
	if err == nil || !IsBenignSignalError(err) {
		t.Fatalf("expected a benign already-exited error, got %v", err)
	}
}
