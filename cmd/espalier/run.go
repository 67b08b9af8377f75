package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <flow>",
	Short: "Run an interactive flow",
	Long:  `Loads the named flow from the flows directory, expands its sublayouts and defaults, and walks through its steps interactively.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flowsDir, _ := cmd.Flags().GetString("flows-dir")
		debug, _ := cmd.Flags().GetBool("debug")
		noStrict, _ := cmd.Flags().GetBool("no-strict")
		quiet, _ := cmd.Flags().GetBool("quiet")
		theme, _ := cmd.Flags().GetString("theme")
		output, _ := cmd.Flags().GetString("output")
		contextJSON, _ := cmd.Flags().GetString("context")

		var seed map[string]any
		if contextJSON != "" {
			if err := json.Unmarshal([]byte(contextJSON), &seed); err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing --context JSON: %v\n", err)
				os.Exit(1)
			}
		}

		code := cli.ExecuteRun(cli.RunOptions{
			FlowsDir:   flowsDir,
			FlowID:     args[0],
			Strict:     !noStrict,
			Debug:      debug,
			Quiet:      quiet,
			Theme:      theme,
			Seed:       seed,
			OutputPath: output,
		})
		if code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("no-strict", false, "Skip the scaffolding-detection heuristics during validation")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress banner and system messages")
	runCmd.Flags().String("theme", "default", "Prompt color palette (default, dark, minimal)")
	runCmd.Flags().StringP("output", "o", "", "Write the final answer map as JSON to this file")
	runCmd.Flags().String("context", "", "Initial context as a JSON object")
}
