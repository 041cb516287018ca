package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var specFile string
	var stateFile string

	root := &cobra.Command{
		Use:   "warden",
		Short: "Local worker process lifecycle controller",
	}

	root.PersistentFlags().
		StringVarP(&specFile, "file", "f", "worker.yaml", "Path to worker spec")
	root.PersistentFlags().
		StringVar(&stateFile, "state-file", "worker.state.json", "Path to the persisted worker record")

	ctx := &context{specFile: &specFile, stateFile: &stateFile}
	root.AddCommand(newRunCmd(ctx))
	root.AddCommand(newStatusCmd(ctx))
	root.AddCommand(newSpecCmd(ctx))

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *exitStatusError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type context struct {
	specFile  *string
	stateFile *string
}

// exitStatusError propagates the worker's exit code through cobra's error
// return without printing it as a failure.
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("worker exited with status %d", e.code)
}
