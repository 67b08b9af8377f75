package schema

import (
	"errors"
	"fmt"
)

// AggregateError carries the full ordered list of validation findings for a
// definition. Validation never short-circuits, so callers always see every
// problem at once.
type AggregateError struct {
	Findings []string
}

func (e *AggregateError) Error() string {
	if len(e.Findings) == 1 {
		return e.Findings[0]
	}
	msg := fmt.Sprintf("%d validation findings:\n", len(e.Findings))
	for i, f := range e.Findings {
		msg += fmt.Sprintf("  %d. %s\n", i+1, f)
	}
	return msg
}

// ValidationFindings returns the collected findings if err is an
// AggregateError, otherwise nil.
func ValidationFindings(err error) []string {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Findings
	}
	return nil
}
