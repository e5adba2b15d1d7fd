package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLookupCommand(app *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "lookup <aphia-id>",
		Short: "Assemble the full species record for a taxon id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("%q is not a taxon id", args[0])
			}
			if err := app.ensure(); err != nil {
				return err
			}

			records := app.session.Search(cmd.Context(), args[0], nil)
			if len(records) == 0 {
				return fmt.Errorf("no species with id %d", id)
			}

			if jsonOut {
				return writeJSON(cmd, records[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDetail(records[0]))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
