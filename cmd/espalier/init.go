package main

import (
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <flow>",
	Short: "Create a template flow definition",
	Long:  `Writes a starting-point flow with the given id into the flows directory. The template intentionally trips strict validation until its steps are customized.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flowsDir, _ := cmd.Flags().GetString("flows-dir")

		if code := cli.ExecuteInit(flowsDir, args[0]); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
