package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCommand(app *app) *cobra.Command {
	var jsonOut bool
	var includeLocal bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Resolve a species by scientific name, common name, or taxon id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensure(); err != nil {
				return err
			}

			records := app.session.Search(cmd.Context(), args[0], func(stage string) {
				fmt.Fprintln(cmd.ErrOrStderr(), stage)
			})
			if includeLocal {
				local, err := app.session.Local()
				if err != nil {
					return err
				}
				records = append(records, local...)
			}
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
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&includeLocal, "local", false, "Append user-authored species to the results")
	return cmd
}
