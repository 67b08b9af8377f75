// Package cli holds the command logic behind the espalier binary, kept out
// of cmd/ so it can be tested without cobra plumbing.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/internal/logging"
)

// createLogger configures the application logger. In debug mode it writes
// to stderr, keeping stdout clean for the flow UI.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

// AvailableFlows lists the flow ids in dir: the stems of its *.yml files,
// sorted. A missing directory yields an empty list, not an error.
func AvailableFlows(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var flows []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yml") {
			flows = append(flows, strings.TrimSuffix(name, ".yml"))
		}
	}
	sort.Strings(flows)
	return flows
}

// FlowPath resolves a flow id against the flows directory.
func FlowPath(dir, flowID string) string {
	return filepath.Join(dir, flowID+".yml")
}

// LoadMockFile reads a step-id -> answer mapping for mock-driven runs.
// JSON and YAML are both accepted; a top-level `responses:` wrapper is
// unwrapped when present.
func LoadMockFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mock file not found: %w", err)
	}

	var raw map[string]any
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid mock file %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid mock file %s: %w", path, err)
		}
	}

	if wrapped, ok := raw["responses"].(map[string]any); ok && len(raw) == 1 {
		return wrapped, nil
	}
	return raw, nil
}

// PrintResult renders the final answer map as indented JSON on stdout.
func PrintResult(result map[string]any) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", result)
		return
	}
	fmt.Println(string(data))
}
