package cli

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/schema"
)

// ExecuteValidate validates the named flows, or every flow in the directory
// when none are named. It prints a per-flow report and returns the process
// exit code: 0 when everything is clean, 1 otherwise.
func ExecuteValidate(flowsDir string, flowIDs []string, strict bool) int {
	if len(flowIDs) == 0 {
		flowIDs = AvailableFlows(flowsDir)
		if len(flowIDs) == 0 {
			fmt.Printf("No flows found in %s\n", flowsDir)
			return 1
		}
	}

	failed := 0
	for _, flowID := range flowIDs {
		path := FlowPath(flowsDir, flowID)
		findings := schema.ValidateFile(path, strict)
		if len(findings) == 0 {
			fmt.Printf("✅ %s\n", flowID)
			continue
		}
		failed++
		fmt.Printf("❌ %s (%d findings)\n", flowID, len(findings))
		for _, finding := range findings {
			fmt.Printf("   - %s\n", finding)
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}
