package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chordserve/internal/auth"
	"chordserve/internal/deps"
)

// newDoctorCommand reports whether the host is ready to serve conversions:
// engine availability and version, key configuration, and directory state.
func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external dependencies and service readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := deps.CheckBinaries([]deps.Requirement{deps.Engine(cfg.Convert.Engine)})
			rows := make([][]string, 0, len(statuses))
			unavailable := 0
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					if version, err := deps.ProbeVersion(cmd.Context(), status.Command); err == nil {
						detail = version
					}
				} else {
					unavailable++
				}
				rows = append(rows, []string{status.Name, status.Command, yesNo(status.Available), detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Available", "Detail"}, rows))

			keys := auth.NewKeyStore(cfg.Auth.APIKeys, cfg.Auth.OpenMode)
			switch {
			case keys.Open():
				fmt.Fprintln(out, "Auth: open mode (no key required)")
			default:
				fmt.Fprintf(out, "Auth: %d key(s) configured\n", keys.KeyCount())
				if weak := keys.WeakKeyCount(); weak > 0 {
					fmt.Fprintf(out, "Warning: %d key(s) shorter than 16 characters\n", weak)
				}
			}
			fmt.Fprintf(out, "Work directory: %s\n", cfg.Convert.WorkDir)

			if unavailable > 0 {
				return fmt.Errorf("%d required dependency unavailable", unavailable)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
