package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBrowseCommand(app *app) *cobra.Command {
	var offset, limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Sample a page of interesting marine species",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensure(); err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			records := app.session.Browse(cmd.Context(), offset, limit, func(stage string) {
				fmt.Fprintln(cmd.ErrOrStderr(), stage)
			})
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No species found.")
				return nil
			}

			if jsonOut {
				return writeJSON(cmd, records)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of species to skip")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of species to return")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
