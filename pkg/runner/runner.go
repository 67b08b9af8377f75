// Package runner wires the flow engine, prompter and signal handling into
// a single end-to-end run suitable for command-line entry points.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/prompt"
	"github.com/aretw0/espalier/pkg/schema"
)

// Outcome classifies how a run ended, mapped to process exit codes by the
// CLI layer.
type Outcome int

const (
	// OutcomeOK means the flow completed and produced a result.
	OutcomeOK Outcome = iota
	// OutcomeInvalid means the flow failed to load or validate.
	OutcomeInvalid
	// OutcomeFailed means a step errored during execution.
	OutcomeFailed
	// OutcomeCancelled means the user aborted the run.
	OutcomeCancelled
)

// ExitCode returns the conventional process exit code for the outcome.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeInvalid:
		return 1
	case OutcomeFailed:
		return 2
	case OutcomeCancelled:
		return 130
	default:
		return 0
	}
}

// Runner executes a single flow end to end.
type Runner struct {
	FlowsDir string
	Prompter prompt.Prompter
	Logger   *slog.Logger

	// Strict enables scaffolding detection during the validation gate.
	Strict bool
	// Mocks short-circuits matching steps with canned answers.
	Mocks map[string]any
	// Seed pre-populates the execution context before the first step.
	Seed map[string]any
	// OutputPath, when set, receives the final answers as JSON.
	OutputPath string
}

// Run executes the named flow and returns its result together with the
// outcome classification. The returned error is nil only for OutcomeOK.
func (r *Runner) Run(parent context.Context, flowID string) (map[string]any, Outcome, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	sm := NewSignalManager(parent, WithEscalation(len(r.Mocks) == 0), WithNotify(func(message string) {
		if r.Prompter != nil {
			r.Prompter.Say(message)
			return
		}
		fmt.Fprintln(os.Stderr, message)
	}))
	defer sm.Stop()

	engine := runtime.NewEngine(r.FlowsDir, r.Prompter,
		runtime.WithLogger(logger),
		runtime.WithStrictValidation(r.Strict),
		runtime.WithMockResponses(r.Mocks),
	)

	result, err := engine.ExecuteFlow(sm.Context(), flowID, r.Seed)
	if err != nil {
		return nil, classify(err), err
	}

	if r.OutputPath != "" {
		if werr := writeResult(r.OutputPath, result); werr != nil {
			return result, OutcomeFailed, werr
		}
		logger.Info("result written", "path", r.OutputPath)
	}
	return result, OutcomeOK, nil
}

func classify(err error) Outcome {
	var agg *schema.AggregateError
	switch {
	case errors.Is(err, runtime.ErrCancelled), errors.Is(err, context.Canceled):
		return OutcomeCancelled
	case errors.As(err, &agg):
		return OutcomeInvalid
	case errors.Is(err, os.ErrNotExist), errors.Is(err, schema.ErrEmptyDocument):
		return OutcomeInvalid
	}
	var exec *runtime.ExecutionError
	if errors.As(err, &exec) {
		return OutcomeFailed
	}
	// Loading and preprocessing failures surface before any step runs.
	return OutcomeInvalid
}

func writeResult(path string, result map[string]any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
