// Package cli wires the cobra command tree. The root command is the
// interactive session; everything else is inspection tooling around it.
package cli

import (
	"github.com/spf13/cobra"
)

var reviewMode bool

var rootCmd = &cobra.Command{
	Use:   "sheetwright",
	Short: "Turn plain-language instructions into spreadsheet operations",
	Long: `Sheetwright reads spreadsheet files from a read-only input directory,
sends each instruction to a generation service, validates the returned
script against a security policy, and runs it in an isolated process.
Results land in the output directory; inputs are never modified.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd.Context(), reviewMode)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&reviewMode, "review", false, "Show each validated script and confirm before running it")
}

func Execute() error {
	return rootCmd.Execute()
}
