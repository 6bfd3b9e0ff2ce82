package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/haozl/sheetwright/internal/policy"
	"github.com/haozl/sheetwright/internal/sandbox"
)

// runScriptCmd is the child-process side of the executor. The parent
// spawns its own binary with this hidden command so every script gets a
// process boundary and a killable PID.
var runScriptCmd = &cobra.Command{
	Use:    sandbox.RunScriptCommand + " <script>",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pol, err := policy.Load(os.Getenv(sandbox.PolicyPathEnv))
		if err != nil {
			return err
		}
		return sandbox.Interpret(args[0], pol.AllowedImports, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(runScriptCmd)
}
