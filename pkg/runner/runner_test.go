package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/prompt"
	"github.com/aretw0/espalier/pkg/schema"
)

type queuePrompter struct {
	answers []any
	err     error
}

func (p *queuePrompter) Ask(ctx context.Context, q prompt.Question) (any, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.answers) == 0 {
		return nil, fmt.Errorf("unexpected question: %s", q.Message)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *queuePrompter) Say(string)            {}
func (p *queuePrompter) Banner(_, _, _ string) {}

func TestOutcome_ExitCodes(t *testing.T) {
	assert.Equal(t, 0, OutcomeOK.ExitCode())
	assert.Equal(t, 1, OutcomeInvalid.ExitCode())
	assert.Equal(t, 2, OutcomeFailed.ExitCode())
	assert.Equal(t, 130, OutcomeCancelled.ExitCode())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeCancelled, classify(runtime.ErrCancelled))
	assert.Equal(t, OutcomeCancelled, classify(context.Canceled))
	assert.Equal(t, OutcomeInvalid, classify(&schema.AggregateError{Findings: []string{"x"}}))
	assert.Equal(t, OutcomeInvalid, classify(schema.ErrEmptyDocument))
	assert.Equal(t, OutcomeFailed, classify(&runtime.ExecutionError{StepID: "s", Err: fmt.Errorf("boom")}))
	assert.Equal(t, OutcomeInvalid, classify(fmt.Errorf("definition not found")))
}

func TestRunner_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	flow := `
layout_id: survey
title: Survey
steps:
  - id: name
    type: text
    message: "Name?"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "survey.yml"), []byte(flow), 0o644))

	t.Run("mock run writes output file", func(t *testing.T) {
		out := filepath.Join(dir, "result", "answers.json")
		r := &Runner{
			FlowsDir:   dir,
			Prompter:   &queuePrompter{},
			Strict:     true,
			Mocks:      map[string]any{"name": "Ann"},
			OutputPath: out,
		}

		result, outcome, err := r.Run(context.Background(), "survey")
		require.NoError(t, err)
		assert.Equal(t, OutcomeOK, outcome)
		assert.Equal(t, map[string]any{"name": "Ann"}, result)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		var written map[string]any
		require.NoError(t, json.Unmarshal(data, &written))
		assert.Equal(t, "Ann", written["name"])
	})

	t.Run("missing flow is invalid", func(t *testing.T) {
		r := &Runner{FlowsDir: dir, Prompter: &queuePrompter{}, Strict: true}
		_, outcome, err := r.Run(context.Background(), "ghost")
		assert.Error(t, err)
		assert.Equal(t, OutcomeInvalid, outcome)
	})

	t.Run("interrupted prompt is cancelled", func(t *testing.T) {
		r := &Runner{
			FlowsDir: dir,
			Prompter: &queuePrompter{err: prompt.ErrInterrupted},
			Strict:   true,
		}
		_, outcome, err := r.Run(context.Background(), "survey")
		assert.ErrorIs(t, err, runtime.ErrCancelled)
		assert.Equal(t, OutcomeCancelled, outcome)
	})
}
