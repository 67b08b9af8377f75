package cli

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/preprocess"
	"github.com/aretw0/espalier/pkg/schema"
)

// ExecuteExpand resolves a flow's sublayouts into a flat virtual layout and
// optionally persists the snapshots for inspection. Returns the process
// exit code.
func ExecuteExpand(flowsDir, flowID, layoutOut, defaultsOut string, debug bool) int {
	logger := createLogger(debug)
	path := FlowPath(flowsDir, flowID)

	expander := preprocess.NewExpander(logger)
	var err error
	if layoutOut != "" {
		_, err = expander.ExpandToFile(path, layoutOut)
	} else {
		_, err = expander.Expand(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if layoutOut != "" {
		printSystemMessage("Virtual layout written to %s", layoutOut)
	} else {
		printSystemMessage("Flow '%s' expands cleanly.", flowID)
	}

	if defaultsOut != "" {
		def, err := schema.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		merger := preprocess.NewDefaultsMerger(logger)
		if _, err := merger.MergeToFile(path, def, defaultsOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		printSystemMessage("Unified defaults written to %s", defaultsOut)
	}
	return 0
}
