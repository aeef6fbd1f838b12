package main

import (
	"fmt"

	"github.com/JonMunkholm/episodes/internal/app"
	"github.com/JonMunkholm/episodes/internal/config"
	"github.com/spf13/cobra"
)

// exitWarnings is the status of check when any warning was found.
const exitWarnings = 2

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every source and report data-quality warnings",
		Long: `Load every source and report data-quality warnings: missing required
fields, duplicate or invalid ranks, future broadcast dates, and negative
series numbers. Exits with status 2 when any warning is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, cmd.ErrOrStderr(), func(_ *config.Config, rt *app.Runtime) error {
				res, err := load(cmd.Context(), rt)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, s := range res.Sources {
					fmt.Fprintf(out, "%s: %d episodes\n", s.Source.Label(), s.Episodes)
				}

				if len(res.Warnings) == 0 {
					fmt.Fprintf(out, "No data-quality warnings in %d episodes.\n", len(res.Episodes))
					return nil
				}

				fmt.Fprintln(out, renderWarnings(res.Warnings))
				n := len(res.Warnings)
				return &exitError{
					code: exitWarnings,
					msg:  fmt.Sprintf("%d data-quality %s in %d episodes", n, plural(n, "warning", "warnings"), len(res.Episodes)),
				}
			})
		},
	}
}
