package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier renders interactive terminal forms from YAML definitions",
	Long:  `Espalier lets you define configuration wizards and survey-style prompts as declarative YAML flows instead of hand-written prompt code.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("flows-dir", "flows", "Directory containing the flow definitions")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}
