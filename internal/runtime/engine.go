package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/preprocess"
	"github.com/aretw0/espalier/pkg/expr"
	"github.com/aretw0/espalier/pkg/prompt"
	"github.com/aretw0/espalier/pkg/schema"
)

// Engine drives a flow definition step by step: it evaluates visibility
// conditions, computes derived values, substitutes mock answers, delegates
// question-asking to the prompt collaborator, and applies the optional
// output mapping at the end.
//
// Execution is single-threaded and synchronous; each step's visibility and
// value can depend on every prior answer, so there is nothing to
// parallelize. The only suspension point is the blocking ask.
type Engine struct {
	flowsDir string
	prompter prompt.Prompter
	logger   *slog.Logger
	strict   bool
	mocks    map[string]any
	defaults map[string]any
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger; default is a no-op logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStrictValidation toggles strict-mode validation before execution.
// Strict is the default: unfinished scaffolding aborts the run.
func WithStrictValidation(strict bool) EngineOption {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithMockResponses supplies literal answers by step id. A mocked step is
// answered verbatim, skipping the prompt collaborator entirely; built for
// deterministic automated testing.
func WithMockResponses(mocks map[string]any) EngineOption {
	return func(e *Engine) {
		e.mocks = mocks
	}
}

// WithDefaults overrides the merged external defaults. When absent, the
// engine runs the defaults merger itself for file-loaded flows.
func WithDefaults(defaults map[string]any) EngineOption {
	return func(e *Engine) {
		e.defaults = defaults
	}
}

// NewEngine creates an executor over the given flows directory and prompt
// collaborator.
func NewEngine(flowsDir string, prompter prompt.Prompter, opts ...EngineOption) *Engine {
	e := &Engine{
		flowsDir: flowsDir,
		prompter: prompter,
		logger:   logging.NewNop(),
		strict:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteFlow loads the definition for flowID from the flows directory,
// merges its layered defaults, and runs it. seed provides the initial
// answer context visible to conditions and computed steps.
func (e *Engine) ExecuteFlow(ctx context.Context, flowID string, seed map[string]any) (map[string]any, error) {
	path := filepath.Join(e.flowsDir, flowID+".yml")
	def, err := schema.Load(path)
	if err != nil {
		return nil, err
	}

	defaults := e.defaults
	if defaults == nil {
		defaults = preprocess.NewDefaultsMerger(e.logger).Merge(path, def)
	}
	return e.execute(ctx, def, filepath.Dir(path), seed, defaults, false, false)
}

// ExecuteDefinition runs a pre-expanded in-memory definition, bypassing
// file loading. Callers that already ran the layout expander and defaults
// merger use this entry point; sublayout references are not resolved here.
func (e *Engine) ExecuteDefinition(ctx context.Context, def *schema.FlowDefinition, seed map[string]any) (map[string]any, error) {
	return e.execute(ctx, def, e.flowsDir, seed, e.defaults, true, false)
}

// execute runs one definition. asFragment marks a definition reached
// through a sublayout reference, which gets the relaxed validation rules:
// a referenced step-list file has no layout_id and often no title.
func (e *Engine) execute(ctx context.Context, def *schema.FlowDefinition, baseDir string, seed, defaults map[string]any, preExpanded, asFragment bool) (map[string]any, error) {
	var findings []string
	switch {
	case def.IsFragment():
		findings = schema.ValidateFragment(def, e.strict)
	case asFragment:
		findings = schema.ValidateSubRun(def, e.strict)
	default:
		findings = schema.Validate(def, e.strict)
	}
	if len(findings) > 0 {
		return nil, &schema.AggregateError{Findings: findings}
	}

	if def.Title != "" || def.Description != "" {
		e.prompter.Banner(def.Icon, def.Title, def.Description)
	}

	answers, err := e.runSteps(ctx, def.Steps, baseDir, seed, defaults, preExpanded)
	if err != nil {
		return nil, err
	}

	if len(def.OutputMapping) > 0 {
		return ApplyOutputMapping(answers, def.OutputMapping), nil
	}
	return answers, nil
}

// runSteps iterates a step list in declaration order, threading the
// accumulating answer map. Sublayout references become recursive sub-runs
// seeded with a copy of the context gathered so far.
func (e *Engine) runSteps(ctx context.Context, steps []schema.Step, baseDir string, seed, defaults map[string]any, preExpanded bool) (map[string]any, error) {
	answers := make(map[string]any)

	for _, step := range steps {
		if step.IsSublayoutRef() && !preExpanded {
			merged, err := e.runSublayout(ctx, step, baseDir, snapshot(seed, answers), defaults)
			if err != nil {
				return nil, err
			}
			for k, v := range merged {
				answers[k] = v
			}
			continue
		}

		if step.Type == schema.StepComputed {
			if step.Compute != "" {
				answers[step.ID] = expr.Evaluate(step.Compute, snapshot(seed, answers))
				e.logger.Debug("computed step resolved", "step", step.ID, "value", answers[step.ID])
			}
			continue
		}

		if cond := step.VisibilityCondition(); cond != "" {
			if !expr.EvaluateCondition(cond, snapshot(seed, answers)) {
				e.logger.Debug("step skipped by condition", "step", step.ID, "condition", cond)
				continue
			}
		}

		if step.ID != "" {
			if mocked, ok := e.mocks[step.ID]; ok {
				answers[step.ID] = mocked
				e.prompter.Say(fmt.Sprintf("   🤖 Mock: %s -> %v", step.Message, mocked))
				continue
			}
		}

		answer, err := e.askStep(ctx, step, snapshot(seed, answers), defaults)
		if err != nil {
			return nil, err
		}

		if step.Type != schema.StepInfo && step.ID != "" {
			answers[step.ID] = answer

			if step.Preview != "" {
				preview := expr.FormatPreview(step.Preview, snapshot(seed, answers))
				e.prompter.Say(fmt.Sprintf("   📋 %s", preview))
			}
		}
	}
	return answers, nil
}

// runSublayout executes a referenced file as an independent sub-run. The
// sub-run receives a copy of the accumulated context as its seed; its
// answers are merged back into the parent's. There is no other shared
// state between the two runs.
func (e *Engine) runSublayout(ctx context.Context, step schema.Step, baseDir string, seed, defaults map[string]any) (map[string]any, error) {
	subPath := step.Sublayout
	if !filepath.IsAbs(subPath) {
		subPath = filepath.Join(baseDir, subPath)
	}

	sub, err := schema.Load(subPath)
	if err != nil {
		return nil, fmt.Errorf("sublayout %s: %w", step.Sublayout, err)
	}

	e.logger.Debug("entering sublayout", "subid", step.SubID, "file", step.Sublayout)
	return e.execute(ctx, sub, filepath.Dir(subPath), seed, defaults, false, true)
}

// askStep materializes one interactive step into a question and blocks on
// the prompt collaborator. A nil answer is normalized into a cancellation:
// some prompt toolkits swallow the interrupt and hand back nothing.
func (e *Engine) askStep(ctx context.Context, step schema.Step, snap, defaults map[string]any) (any, error) {
	question := prompt.Question{
		Kind:        step.Type,
		Message:     step.Message,
		Instruction: step.Instruction,
		Title:       step.Title,
		Icon:        step.Icon,
		Choices:     step.Choices,
		Default:     e.resolveDefault(step, defaults),
		Validate:    prompt.LookupValidator(step.Validate),
	}

	answer, err := e.prompter.Ask(ctx, question)
	if err != nil {
		if errors.Is(err, prompt.ErrInterrupted) || errors.Is(err, context.Canceled) {
			return nil, ErrCancelled
		}
		return nil, &ExecutionError{StepID: step.ID, Err: err}
	}
	if answer == nil && step.Type != schema.StepInfo {
		return nil, ErrCancelled
	}
	return answer, nil
}

// resolveDefault applies the defaults hierarchy: externally merged
// defaults (sublayout layer over global layer) win over a step's own
// hardcoded default field.
func (e *Engine) resolveDefault(step schema.Step, defaults map[string]any) any {
	if step.ID != "" {
		if v, ok := defaults[step.ID]; ok {
			return v
		}
	}
	return step.Default
}
