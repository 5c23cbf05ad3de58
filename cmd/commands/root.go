package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "perfgauge",
		Short: "Runtime performance metrics aggregation and alerting engine",
	}

	rootCmd.AddCommand(
		NewDemoCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
