package cli

import (
	stdcontext "context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/warden/internal/cliutil"
	"github.com/Paintersrp/warden/internal/config"
	"github.com/Paintersrp/warden/internal/metrics"
	"github.com/Paintersrp/warden/internal/provision"
)

func newRunCmd(ctx *context) *cobra.Command {
	var workerID string
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "run [-- extra args...]",
		Short: "Launch the worker and supervise it until it exits",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := config.Load(*ctx.specFile)
			if err != nil {
				return err
			}

			prov, err := provision.New("", workerID, spec)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			stderr := cmd.ErrOrStderr()
			// The worker's stdout and stderr are pumped by separate
			// goroutines inside exec; serialize their records.
			var emitMu sync.Mutex
			emit := func(source, message string) {
				emitMu.Lock()
				defer emitMu.Unlock()
				cliutil.EncodeLogRecord(enc, stderr, cliutil.NewLogRecord(spec.Name, source, message))
			}

			stdoutLog := newLogLineWriter(func(line string) { emit(cliutil.LogSourceStdout, line) })
			stderrLog := newLogLineWriter(func(line string) { emit(cliutil.LogSourceStderr, line) })
			defer stdoutLog.Close()
			defer stderrLog.Close()

			resolved, err := prov.Prepare(provision.LaunchRequest{
				ExtraArgs: args,
				Stdout:    stdoutLog,
				Stderr:    stderrLog,
			})
			if err != nil {
				return err
			}

			if err := prov.Start(resolved); err != nil {
				return err
			}
			metrics.IncrementWorkerLaunch(spec.Name)
			metrics.SetWorkerRunning(spec.Name, true)
			emit(cliutil.LogSourceSystem, "worker started")

			if err := provision.WriteRecord(*ctx.stateFile, prov.Serialize()); err != nil {
				emit(cliutil.LogSourceSystem, "warn: "+err.Error())
			}

			code, err := supervise(cmd.Context(), prov, spec, grace, emit)
			if err != nil {
				return err
			}
			metrics.SetWorkerRunning(spec.Name, false)
			metrics.SetWorkerExitCode(spec.Name, code)
			emit(cliutil.LogSourceSystem, "worker exited")

			if err := os.Remove(*ctx.stateFile); err != nil && !os.IsNotExist(err) {
				emit(cliutil.LogSourceSystem, "warn: "+err.Error())
			}

			if code != 0 {
				return &exitStatusError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&workerID, "worker-id", "", "Identifier for this worker (generated when empty)")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "Grace period between shutdown escalation steps")

	return cmd
}

const superviseTick = 100 * time.Millisecond

// supervise blocks until the worker exits and returns its exit code. When ctx
// is cancelled the controller still owns an un-reaped process, so shutdown is
// forwarded to the worker instead: interrupt first, escalating to terminate
// and then kill after each grace period. Workers with a message interrupt
// mode own their interrupt channel elsewhere, so shutdown skips the signal
// and starts at terminate. All control operations run on this one goroutine;
// the provisioner supports no concurrent callers.
func supervise(ctx stdcontext.Context, prov provision.Provisioner, spec *config.Spec, grace time.Duration, emit func(source, message string)) (int, error) {
	const (
		phaseRunning = iota
		phaseInterrupted
		phaseTerminated
		phaseKilled
	)

	name := spec.Name
	phase := phaseRunning
	var deadline time.Time

	for {
		if _, exited := prov.Poll(); exited {
			break
		}

		if phase == phaseRunning {
			select {
			case <-ctx.Done():
				if spec.InterruptMode == config.MessageInterrupt {
					emit(cliutil.LogSourceSystem, "shutdown requested, terminating worker")
					metrics.IncrementWorkerSignal(name, "terminate")
					if err := prov.Terminate(); err != nil {
						emit(cliutil.LogSourceSystem, "warn: "+err.Error())
					}
					phase = phaseTerminated
				} else {
					emit(cliutil.LogSourceSystem, "shutdown requested, interrupting worker")
					metrics.IncrementWorkerSignal(name, "interrupt")
					if err := prov.Signal(os.Interrupt); err != nil {
						emit(cliutil.LogSourceSystem, "warn: "+err.Error())
					}
					phase = phaseInterrupted
				}
				deadline = time.Now().Add(grace)
			case <-time.After(superviseTick):
			}
			continue
		}

		if time.Now().After(deadline) {
			switch phase {
			case phaseInterrupted:
				emit(cliutil.LogSourceSystem, "terminating worker")
				metrics.IncrementWorkerSignal(name, "terminate")
				if err := prov.Terminate(); err != nil {
					emit(cliutil.LogSourceSystem, "warn: "+err.Error())
				}
				phase = phaseTerminated
			case phaseTerminated:
				emit(cliutil.LogSourceSystem, "killing worker")
				metrics.IncrementWorkerSignal(name, "kill")
				if err := prov.Kill(); err != nil {
					emit(cliutil.LogSourceSystem, "warn: "+err.Error())
				}
				phase = phaseKilled
			}
			deadline = time.Now().Add(grace)
		}
		time.Sleep(superviseTick)
	}

	// The worker has exited; the reap itself is immediate. A background
	// context keeps a cancelled root context from leaving the process
	// un-reaped.
	return prov.Wait(stdcontext.Background())
}
