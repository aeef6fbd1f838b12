package main

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/episodes/internal/app"
	"github.com/JonMunkholm/episodes/internal/config"
	"github.com/JonMunkholm/episodes/internal/episode"
	"github.com/JonMunkholm/episodes/internal/export"
	"github.com/JonMunkholm/episodes/internal/view"
	"github.com/spf13/cobra"
)

// viewFlags select the visible rows for list and export.
type viewFlags struct {
	filter string
	sort   string
	desc   bool
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&v.filter, "filter", "f", "", "only episodes whose title, doctor, companion, writer, or director contains this text")
	cmd.Flags().StringVar(&v.sort, "sort", string(view.FieldRank), "column to sort by: "+fieldNames())
	cmd.Flags().BoolVar(&v.desc, "desc", false, "sort descending")
}

func (v *viewFlags) order() (view.Sort, error) {
	field, ok := view.ParseField(v.sort)
	if !ok {
		return view.Sort{}, fmt.Errorf("unknown sort column %q (valid: %s)", v.sort, fieldNames())
	}
	return view.Sort{Field: field, Ascending: !v.desc}, nil
}

func (v *viewFlags) apply(dataset []episode.Episode) ([]episode.Episode, error) {
	order, err := v.order()
	if err != nil {
		return nil, err
	}
	return view.Compute(dataset, v.filter, order), nil
}

func fieldNames() string {
	names := make([]string, len(view.Columns))
	for i, f := range view.Columns {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		vf     viewFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the episode table",
		Long: `Print the merged episode table. On a terminal the table is drawn with
borders; when output is piped it is written as CSV.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := vf.order(); err != nil {
				return err
			}
			switch format {
			case "auto", "table", "csv":
			default:
				return fmt.Errorf("unknown format %q (valid: auto, table, csv)", format)
			}

			return ctx.withRuntime(cmd, cmd.ErrOrStderr(), func(_ *config.Config, rt *app.Runtime) error {
				res, err := load(cmd.Context(), rt)
				if err != nil {
					return err
				}
				visible, err := vf.apply(res.Episodes)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if format == "csv" || (format == "auto" && !isTerminal(out)) {
					return export.WriteCSV(out, visible)
				}

				fmt.Fprintln(out, renderEpisodes(visible))
				fmt.Fprintf(out, "%d of %d episodes\n", len(visible), len(res.Episodes))
				if n := len(res.Warnings); n > 0 {
					fmt.Fprintf(out, "%d data-quality %s found. Run `episodes check` for details.\n", n, plural(n, "warning", "warnings"))
				}
				return nil
			})
		},
	}

	vf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "auto", "output format: auto, table, csv")
	return cmd
}
