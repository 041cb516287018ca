package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/warden/internal/provision"
)

func newStatusCmd(ctx *context) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Display the persisted record of the supervised worker",
		Long: "Status reads the worker record written by run. A restored record " +
			"describes the process (pid, process group, bind address) but carries " +
			"no live handle, so it supports observation only.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := provision.ReadRecord(*ctx.stateFile)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("no worker record at %s", *ctx.stateFile)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut || !stdoutIsTerminal(out) {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PID\tPGID\tIP")
			pgid := "-"
			if rec.Pgid != 0 {
				pgid = fmt.Sprintf("%d", rec.Pgid)
			}
			ip := rec.IP
			if ip == "" {
				ip = "-"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", rec.Pid, pgid, ip)
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Always emit JSON output")

	return cmd
}

func stdoutIsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
