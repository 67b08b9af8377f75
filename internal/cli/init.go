package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// scaffoldTemplate is the canonical starting-point flow. Strict validation
// deliberately flags every part of it, so a generated flow cannot reach
// production unedited.
const scaffoldTemplate = `layout_id: %s
title: New Form
description: Describe what this form collects.
steps:
  - id: example_input
    type: text
    message: "Enter a value:"
    instruction: Provide configuration input
`

// ExecuteInit writes a template flow definition for the given id. Refuses
// to overwrite an existing flow. Returns the process exit code.
func ExecuteInit(flowsDir, flowID string) int {
	path := FlowPath(flowsDir, flowID)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Error: flow '%s' already exists at %s\n", flowID, path)
		return 1
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	content := fmt.Sprintf(scaffoldTemplate, flowID)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	printSystemMessage("Flow scaffold written to %s", path)
	printSystemMessage("Customize the steps, then check it with 'espalier validate %s'.", flowID)
	return 0
}
