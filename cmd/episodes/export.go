package main

import (
	"fmt"

	"github.com/JonMunkholm/episodes/internal/app"
	"github.com/JonMunkholm/episodes/internal/config"
	"github.com/JonMunkholm/episodes/internal/export"
	"github.com/spf13/cobra"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		vf  viewFlags
		out string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the episode table to " + export.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := vf.order(); err != nil {
				return err
			}
			return ctx.withRuntime(cmd, cmd.ErrOrStderr(), func(cfg *config.Config, rt *app.Runtime) error {
				res, err := load(cmd.Context(), rt)
				if err != nil {
					return err
				}
				visible, err := vf.apply(res.Episodes)
				if err != nil {
					return err
				}

				dir := out
				if dir == "" {
					dir = cfg.Export.Dir
				}
				path, err := export.WriteFile(dir, visible)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d episodes to %s\n", len(visible), path)
				return nil
			})
		},
	}

	vf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to write to (default EXPORT_DIR)")
	return cmd
}
