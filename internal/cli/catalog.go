package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haozl/sheetwright/internal/catalog"
	"github.com/haozl/sheetwright/internal/config"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the input directory without starting a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cat, err := catalog.Scan(cfg.InputDir)
		if err != nil {
			return err
		}
		fmt.Println(cat.Describe())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
