package espalier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/prompt"
	"github.com/aretw0/espalier/pkg/schema"
)

// Engine is the high-level entry point for the espalier library. It wraps
// the internal runtime and provides a simplified API for consumers.
type Engine struct {
	flowsDir string
	prompter prompt.Prompter
	logger   *slog.Logger
	strict   bool
	mocks    map[string]any
	theme    string
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithPrompter injects a custom Prompter, bypassing the default terminal
// implementation. Useful for embedding and for tests.
func WithPrompter(p prompt.Prompter) Option {
	return func(e *Engine) {
		e.prompter = p
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStrictValidation toggles the scaffolding-detection heuristics run
// before execution. Enabled by default.
func WithStrictValidation(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithMockResponses supplies canned answers keyed by step id. Matching
// steps never reach the prompter.
func WithMockResponses(mocks map[string]any) Option {
	return func(e *Engine) {
		e.mocks = mocks
	}
}

// WithTheme selects the prompt color palette (default, dark, minimal).
// Ignored when a custom Prompter is injected.
func WithTheme(name string) Option {
	return func(e *Engine) {
		e.theme = name
	}
}

// New initializes an espalier Engine rooted at the given flows directory.
func New(flowsDir string, opts ...Option) (*Engine, error) {
	if flowsDir == "" {
		return nil, fmt.Errorf("flowsDir is required")
	}
	absPath, err := filepath.Abs(flowsDir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	eng := &Engine{
		flowsDir: absPath,
		strict:   true,
		theme:    "default",
		Name:     filepath.Base(absPath),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.prompter == nil {
		eng.prompter = prompt.NewTerminal(os.Stdin, os.Stdout,
			prompt.WithTheme(prompt.NewTheme(eng.theme)),
		)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	eng.logger = eng.logger.With("flows", eng.Name)

	return eng, nil
}

// Run executes the named flow and returns the final answer map, shaped by
// the flow's output mapping when one is declared.
func (e *Engine) Run(ctx context.Context, flowID string, seed map[string]any) (map[string]any, error) {
	return e.runtime().ExecuteFlow(ctx, flowID, seed)
}

// RunDefinition executes an already-expanded definition, bypassing file
// loading and sublayout resolution.
func (e *Engine) RunDefinition(ctx context.Context, def *schema.FlowDefinition, seed map[string]any) (map[string]any, error) {
	return e.runtime().ExecuteDefinition(ctx, def, seed)
}

// Validate checks the named flow and everything it references, returning
// the ordered list of findings. Empty means valid.
func (e *Engine) Validate(flowID string) []string {
	path := filepath.Join(e.flowsDir, flowID+".yml")
	return schema.ValidateFile(path, e.strict)
}

func (e *Engine) runtime() *runtime.Engine {
	return runtime.NewEngine(e.flowsDir, e.prompter,
		runtime.WithLogger(e.logger),
		runtime.WithStrictValidation(e.strict),
		runtime.WithMockResponses(e.mocks),
	)
}
