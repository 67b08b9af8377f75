// Package prompt defines the question-asking boundary of the form engine.
//
// The executor never talks to a terminal directly: it materializes each
// visible step into a Question and hands it to a Prompter, which blocks
// until the user answers or the ask is cancelled. Tests substitute a
// scripted Prompter; the default implementation renders to a real terminal.
package prompt

import (
	"context"
	"errors"

	"github.com/aretw0/espalier/pkg/schema"
)

// ErrInterrupted is returned by a Prompter when the ask was aborted by the
// user (interrupt signal or closed input). The executor normalizes it into
// a flow-level cancellation.
var ErrInterrupted = errors.New("prompt interrupted")

// Question is the materialized form of one visible step, carrying only
// what a prompt widget needs to collect an answer.
type Question struct {
	// Kind is one of the schema step types (text, select, multiselect,
	// confirm, password, info).
	Kind string

	Message     string
	Instruction string

	// Title/Icon mark an info question as a non-interactive section header.
	Title string
	Icon  string

	Choices []schema.Choice

	// Default is nil when no default applies.
	Default any

	// Validate checks a raw entered string before the answer is accepted;
	// nil means any input is fine. Validation failures are handled inside
	// the prompter's retry loop and never escape to the executor.
	Validate ValidatorFunc
}

// Prompter asks a single question and returns the user's answer.
// Implementations must honor ctx cancellation during the blocking wait and
// surface user aborts as ErrInterrupted.
type Prompter interface {
	Ask(ctx context.Context, q Question) (any, error)

	// Say emits an informational line outside of any question, used for
	// mock indicators and preview summaries.
	Say(message string)

	// Banner renders the flow-level header (icon, title, description)
	// before the first step.
	Banner(icon, title, description string)
}
