package main

import (
	"fmt"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the flows in the flows directory",
	Run: func(cmd *cobra.Command, args []string) {
		flowsDir, _ := cmd.Flags().GetString("flows-dir")

		flows := cli.AvailableFlows(flowsDir)
		if len(flows) == 0 {
			fmt.Printf("No flows found in %s\n", flowsDir)
			return
		}
		for _, flow := range flows {
			fmt.Println(flow)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
