package main

import (
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flows...]",
	Short: "Check flow definitions for problems",
	Long:  `Validates the named flows, or every flow in the flows directory when none are given. Follows sublayout and defaults-file references and reports every finding at once.`,
	Run: func(cmd *cobra.Command, args []string) {
		flowsDir, _ := cmd.Flags().GetString("flows-dir")
		noStrict, _ := cmd.Flags().GetBool("no-strict")

		if code := cli.ExecuteValidate(flowsDir, args, !noStrict); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("no-strict", false, "Skip the scaffolding-detection heuristics")
}
