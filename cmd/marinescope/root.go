package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	app := newApp(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "marinescope",
		Short:         "Resolve and enrich marine species from the public registries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newSearchCommand(app))
	rootCmd.AddCommand(newBrowseCommand(app))
	rootCmd.AddCommand(newLookupCommand(app))
	rootCmd.AddCommand(newServeCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}
