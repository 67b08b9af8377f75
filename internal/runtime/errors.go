package runtime

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user aborts during interactive
// prompting. Already-collected answers are discarded; no partial result is
// ever returned alongside it.
var ErrCancelled = errors.New("flow execution cancelled by user")

// ExecutionError wraps a failure raised while running a step, as opposed
// to a validation or load failure detected before any prompt was shown.
type ExecutionError struct {
	StepID string
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.StepID == "" {
		return fmt.Sprintf("flow execution failed: %v", e.Err)
	}
	return fmt.Sprintf("flow execution failed at step %s: %v", e.StepID, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
