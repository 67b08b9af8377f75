package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/prompt"
	"github.com/aretw0/espalier/pkg/runner"
	"github.com/aretw0/espalier/pkg/schema"
)

// RunOptions carries the configuration for the run and test commands.
type RunOptions struct {
	FlowsDir string
	FlowID   string

	Strict   bool
	Debug    bool
	Quiet    bool
	Theme    string
	MockFile string
	// Seed pre-populates the execution context.
	Seed map[string]any
	// OutputPath, when set, receives the final answers as JSON.
	OutputPath string
	// PrintResultMap controls whether the answer map is echoed to stdout
	// after a successful run.
	PrintResultMap bool
}

// ExecuteRun runs a flow end to end and returns the process exit code.
func ExecuteRun(opts RunOptions) int {
	logger := createLogger(opts.Debug)

	var mocks map[string]any
	if opts.MockFile != "" {
		loaded, err := LoadMockFile(opts.MockFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		mocks = loaded
	}

	if !opts.Quiet && mocks == nil {
		tui.PrintBanner()
	}

	prompter := prompt.NewTerminal(os.Stdin, os.Stdout,
		prompt.WithTheme(prompt.NewTheme(opts.Theme)),
	)

	r := &runner.Runner{
		FlowsDir:   opts.FlowsDir,
		Prompter:   prompter,
		Logger:     logger,
		Strict:     opts.Strict,
		Mocks:      mocks,
		Seed:       opts.Seed,
		OutputPath: opts.OutputPath,
	}

	result, outcome, err := r.Run(context.Background(), opts.FlowID)
	switch outcome {
	case runner.OutcomeOK:
		if !opts.Quiet {
			printSystemMessage("Flow '%s' completed.", opts.FlowID)
		}
		if opts.PrintResultMap {
			PrintResult(result)
		}
	case runner.OutcomeCancelled:
		if !opts.Quiet {
			printSystemMessage("Flow '%s' cancelled.", opts.FlowID)
		}
	case runner.OutcomeInvalid:
		reportValidationFailure(err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return outcome.ExitCode()
}

// reportValidationFailure prints load and validation failures one finding
// per line, so a long report stays readable.
func reportValidationFailure(err error) {
	findings := schema.ValidationFindings(err)
	if len(findings) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Validation failed (%d findings):\n", len(findings))
	for _, finding := range findings {
		fmt.Fprintf(os.Stderr, "  - %s\n", finding)
	}
}
