package main

import (
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand <flow>",
	Short: "Resolve a flow's sublayouts into a flat virtual layout",
	Long:  `Expands the named flow's sublayout references and optionally writes the flattened layout and the merged defaults to YAML files for inspection. The engine performs the same expansion at run time; these snapshots are diagnostic only.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flowsDir, _ := cmd.Flags().GetString("flows-dir")
		debug, _ := cmd.Flags().GetBool("debug")
		layoutOut, _ := cmd.Flags().GetString("out")
		defaultsOut, _ := cmd.Flags().GetString("defaults-out")

		if code := cli.ExecuteExpand(flowsDir, args[0], layoutOut, defaultsOut, debug); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().String("out", "", "Write the flattened virtual layout to this YAML file")
	expandCmd.Flags().String("defaults-out", "", "Write the merged defaults to this YAML file")
}
