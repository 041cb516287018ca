package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/warden/internal/cliutil"
	"github.com/Paintersrp/warden/internal/config"
)

func newSpecCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Validate the worker spec and print its resolved launch parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := config.Load(*ctx.specFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "name\t%s\n", spec.Name)
			if spec.DisplayName != "" {
				fmt.Fprintf(w, "displayName\t%s\n", spec.DisplayName)
			}
			fmt.Fprintf(w, "argv\t%s\n", strings.Join(spec.Argv, " "))
			fmt.Fprintf(w, "workdir\t%s\n", spec.ResolvedWorkdir)
			fmt.Fprintf(w, "interruptMode\t%s\n", spec.InterruptMode)
			if spec.IP != "" {
				fmt.Fprintf(w, "ip\t%s\n", spec.IP)
			}

			keys := make([]string, 0, len(spec.Env))
			for k := range spec.Env {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				value := cliutil.RedactSecrets(fmt.Sprintf("%s=%s", k, spec.Env[k]))
				fmt.Fprintf(w, "env\t%s\n", value)
			}
			return w.Flush()
		},
	}

	return cmd
}
