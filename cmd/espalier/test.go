package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test <flow>",
	Short: "Run a flow against mock answers",
	Long:  `Executes the flow non-interactively, answering each step from the mock file (a JSON or YAML map of step id to answer), and prints the resulting answer map.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flowsDir, _ := cmd.Flags().GetString("flows-dir")
		debug, _ := cmd.Flags().GetBool("debug")
		mockFile, _ := cmd.Flags().GetString("mocks")
		output, _ := cmd.Flags().GetString("output")

		if mockFile == "" {
			fmt.Fprintln(os.Stderr, "Error: --mocks is required")
			os.Exit(1)
		}

		code := cli.ExecuteRun(cli.RunOptions{
			FlowsDir:       flowsDir,
			FlowID:         args[0],
			Strict:         true,
			Debug:          debug,
			Quiet:          true,
			MockFile:       mockFile,
			OutputPath:     output,
			PrintResultMap: true,
		})
		if code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringP("mocks", "m", "", "Mock answer file (JSON or YAML map of step id to answer)")
	testCmd.Flags().StringP("output", "o", "", "Write the final answer map as JSON to this file")
}
