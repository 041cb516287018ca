package provision

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Paintersrp/warden/internal/config"
	"github.com/Paintersrp/warden/internal/iputil"
	"github.com/Paintersrp/warden/internal/launcher"
)

const defaultPollInterval = 100 * time.Millisecond

func init() {
	Register("local", func(workerID string, spec *config.Spec) Provisioner {
		return NewLocal(workerID, spec)
	})
}

// Local provisions a worker as a directly launched OS process. All state is
// per-instance; two Local values never share anything.
type Local struct {
	workerID string
	spec     *config.Spec
	interval time.Duration

	handle *launcher.Handle
	pid    int
	pgid   int
	ip     string

	connInfo map[string]any
}

// NewLocal constructs a provisioner for the given worker spec. A zero
// pollInterval in the spec falls back to 100ms.
func NewLocal(workerID string, spec *config.Spec) *Local {
	interval := defaultPollInterval
	ip := ""
	if spec != nil {
		if spec.PollInterval.IsSet() && spec.PollInterval.Duration > 0 {
			interval = spec.PollInterval.Duration
		}
		ip = spec.IP
	}
	return &Local{
		workerID: workerID,
		spec:     spec,
		interval: interval,
		ip:       ip,
	}
}

// WorkerID returns the identifier assigned to this worker.
func (p *Local) WorkerID() string { return p.workerID }

func (p *Local) HasProcess() bool { return p.handle != nil }

// Prepare resolves the final argv and launch options. It supports two paths
// producing the same resolved value: the direct one, building from the spec's
// argv plus any extra arguments, and the legacy one, deferring command
// formatting to the supplied connection manager. The legacy path refuses
// network transports bound to a non-local address.
func (p *Local) Prepare(req LaunchRequest) (ResolvedLaunch, error) {
	var argv []string
	if req.Manager != nil {
		resolved, err := p.prepareWithManager(req)
		if err != nil {
			return ResolvedLaunch{}, err
		}
		argv = resolved
	} else {
		argv = req.Command
		if len(argv) == 0 && p.spec != nil {
			argv = p.spec.Argv
		}
		argv = append(append([]string(nil), argv...), req.ExtraArgs...)
	}
	if len(argv) == 0 {
		return ResolvedLaunch{}, fmt.Errorf("worker %s: no launch command resolved", p.workerID)
	}

	env := make(map[string]string)
	if p.spec != nil {
		for k, v := range p.spec.Env {
			env[k] = v
		}
	}
	for k, v := range req.Env {
		env[k] = v
	}

	dir := req.Dir
	if dir == "" && p.spec != nil {
		dir = p.spec.ResolvedWorkdir
	}

	return ResolvedLaunch{
		Argv: argv,
		Options: LaunchOptions{
			Env:    env,
			Dir:    dir,
			Stdout: req.Stdout,
			Stderr: req.Stderr,
		},
	}, nil
}

func (p *Local) prepareWithManager(req LaunchRequest) ([]string, error) {
	km := req.Manager
	if km.Transport() == "tcp" && !iputil.IsLocal(km.IP()) {
		return nil, &ConfigurationError{Address: km.IP(), LocalAddrs: iputil.LocalAddrs()}
	}
	if err := km.WriteConnectionFile(); err != nil {
		return nil, fmt.Errorf("write connection file: %w", err)
	}
	p.connInfo = km.ConnectionInfo()
	p.ip = km.IP()
	return km.FormatCommand(req.ExtraArgs), nil
}

// Start launches the worker and records its identity. Process-group
// resolution is best-effort: platforms without groups, or a child that exits
// before the lookup, leave the pgid absent rather than failing the launch.
func (p *Local) Start(resolved ResolvedLaunch) error {
	if p.handle != nil {
		return fmt.Errorf("worker %s: already running (pid %d)", p.workerID, p.pid)
	}

	h, err := launcher.Launch(resolved.Argv, launcher.Options{
		Env:    resolved.Options.Env,
		Dir:    resolved.Options.Dir,
		Stdout: resolved.Options.Stdout,
		Stderr: resolved.Options.Stderr,
	})
	if err != nil {
		return err
	}

	p.handle = h
	p.pid = h.Pid()
	p.pgid = 0
	if pgid, err := launcher.ProcessGroup(p.pid); err == nil {
		p.pgid = pgid
	}
	return nil
}

func (p *Local) Poll() (int, bool) {
	if p.handle == nil {
		return 0, true
	}
	return p.handle.Poll()
}

// Wait samples Poll at the configured interval until the worker exits, then
// performs the authoritative reap and drops the handle. It returns 0
// immediately when no process is tracked, matching Poll's sentinel.
func (p *Local) Wait(ctx context.Context) (int, error) {
	if p.handle == nil {
		return 0, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if _, exited := p.handle.Poll(); exited {
			break
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}

	code := p.handle.Wait()
	p.handle = nil
	return code, nil
}

// Signal delivers sig to the worker, preferring the process group so the
// worker's own children receive it too. Interrupts may be remapped to a
// dedicated delivery mechanism on platforms whose only generic signal is
// terminate. Failures caused by the target having already exited are
// swallowed.
func (p *Local) Signal(sig os.Signal) error {
	if p.handle == nil {
		return nil
	}
	if _, exited := p.handle.Poll(); exited {
		// Already dead, just not reaped yet. Delivery would only race the
		// corpse.
		return nil
	}

	if sig == os.Interrupt {
		if handled, err := p.handle.Interrupt(); handled {
			if err == nil || launcher.IsBenignSignalError(err) {
				return nil
			}
			return fmt.Errorf("interrupt worker %s: %w", p.workerID, err)
		}
	}

	if p.pgid != 0 {
		err := launcher.SignalProcessGroup(p.pgid, sig)
		if err == nil || launcher.IsBenignSignalError(err) {
			return nil
		}
		// Group delivery failed for another reason; fall through to the
		// single process.
	}

	err := p.handle.Signal(sig)
	if err == nil || launcher.IsBenignSignalError(err) {
		return nil
	}
	return fmt.Errorf("signal worker %s: %w", p.workerID, err)
}

// Kill forcibly terminates the worker process (not its group). A target that
// is already gone is success; any other OS failure propagates.
func (p *Local) Kill() error {
	if p.handle == nil {
		return nil
	}
	err := p.handle.Kill()
	if err == nil || launcher.IsBenignKillError(err) {
		return nil
	}
	return fmt.Errorf("kill worker %s: %w", p.workerID, err)
}

// Terminate requests a graceful shutdown of the worker process.
func (p *Local) Terminate() error {
	if p.handle == nil {
		return nil
	}
	return p.handle.Terminate()
}

// Cleanup releases resources beyond the process handle. The local case holds
// none; the hook exists so every provisioner kind exposes the same surface.
func (p *Local) Cleanup() error { return nil }

func (p *Local) Serialize() Record {
	return Record{Pid: p.pid, Pgid: p.pgid, IP: p.ip}
}

func (p *Local) Restore(rec Record) {
	p.pid = rec.Pid
	p.pgid = rec.Pgid
	p.ip = rec.IP
}

func (p *Local) ConnectionInfo() map[string]any { return p.connInfo }

func (p *Local) ShutdownRequested() error { return nil }
