package main

import (
	"io"

	"github.com/JonMunkholm/episodes/internal/app"
	"github.com/JonMunkholm/episodes/internal/config"
	"github.com/JonMunkholm/episodes/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Explore the episode table interactively",
		Long: `Open the interactive explorer. Type to search, tab between the search
box, column headers, and rows, enter to sort by the selected column, r to
reload, e to export. Logs are discarded unless LOG_FILE is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, io.Discard, func(cfg *config.Config, rt *app.Runtime) error {
				return tui.Run(tui.Options{
					Context:   cmd.Context(),
					Loader:    rt.Loader,
					Sources:   rt.Sources,
					ExportDir: cfg.Export.Dir,
				})
			})
		},
	}
}
