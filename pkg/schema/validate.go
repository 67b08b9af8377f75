package schema

import (
	"fmt"
	"strings"
)

// placeholderPrefixes are step id prefixes emitted by scaffolding
// generators. Strict validation flags them as unfinished work.
var placeholderPrefixes = []string{
	"example_", "test_", "placeholder_", "sample_", "demo_", "temp_", "mock_", "dummy_",
}

// genericMessages are prompt texts that ship with generated templates and
// indicate the form was never customized.
var genericMessages = []string{
	"Enter a value:",
	"Provide configuration input",
	"Enter text here",
	"Select an option",
	"Choose a value",
	"Input value",
	"Type something",
}

var genericInstructions = []string{
	"Provide configuration input",
	"Enter your input",
	"Fill in this field",
}

// The canonical untouched-template step produced by the scaffolding
// generator. Matching all four fields at once means nothing was edited.
const (
	templateStepID       = "example_input"
	templateMessage      = "Enter a value:"
	templateInstruction  = "Provide configuration input"
	templateStepType     = StepText
	templateFlagReason   = "matches the untouched scaffolding template - this step has not been customized at all"
	placeholderIDReason  = "placeholder id detected - appears to be scaffolding that hasn't been customized"
	singleStepFlagReason = "only one step, with a placeholder id - form appears incomplete"
)

// Validate checks a flow definition for structural correctness and, in
// strict mode, for unfinished-scaffolding signals. It returns the ordered
// list of findings; an empty list means the definition is valid. Validation
// never mutates the definition and never short-circuits.
func Validate(def *FlowDefinition, strict bool) []string {
	var findings []string

	if def.LayoutID == "" {
		findings = append(findings, "missing required field: layout_id")
	}
	if def.Title == "" {
		findings = append(findings, "missing required field: title")
	}
	if def.Steps == nil {
		findings = append(findings, "missing required field: steps")
	}

	findings = append(findings, validateSteps(def.Steps, true)...)

	if strict {
		findings = append(findings, strictFindings(def.Steps)...)
	}
	return findings
}

// ValidateFragment checks a standalone sublayout fragment. Fragments are
// spliced into a parent flow, so they need a title and a non-empty step
// list but no layout_id, and they may not nest further sublayout
// references.
func ValidateFragment(def *FlowDefinition, strict bool) []string {
	var findings []string

	if def.Title == "" {
		findings = append(findings, "missing required field: title")
	}
	if def.Steps == nil {
		findings = append(findings, "missing required field: steps")
	} else if len(def.Steps) == 0 {
		findings = append(findings, "'steps' must be a non-empty list")
	}

	findings = append(findings, validateSteps(def.Steps, false)...)

	if strict {
		findings = append(findings, strictFindings(def.Steps)...)
	}
	return findings
}

// ValidateSubRun checks a definition reached through a sublayout reference
// at execution time. A referenced file needs a valid, non-empty step list;
// layout_id and title are optional, since a section header is synthesized
// only when a title or description is present. Nested sublayout references
// are allowed here: the executor resolves them recursively.
func ValidateSubRun(def *FlowDefinition, strict bool) []string {
	var findings []string

	if def.Steps == nil {
		findings = append(findings, "missing required field: steps")
	} else if len(def.Steps) == 0 {
		findings = append(findings, "'steps' must be a non-empty list")
	}

	findings = append(findings, validateSteps(def.Steps, true)...)

	if strict {
		findings = append(findings, strictFindings(def.Steps)...)
	}
	return findings
}

func validateSteps(steps []Step, allowSublayouts bool) []string {
	var findings []string
	stepIDs := make(map[string]bool)
	subIDs := make(map[string]bool)

	for i, step := range steps {
		if step.IsSublayoutRef() {
			if !allowSublayouts {
				findings = append(findings, fmt.Sprintf("step %d: sublayout references are not allowed inside a sublayout fragment", i))
				continue
			}
			if step.SubID == "" {
				findings = append(findings, fmt.Sprintf("step %d: sublayout reference missing 'subid' field", i))
			} else if subIDs[step.SubID] {
				findings = append(findings, fmt.Sprintf("step %d: duplicate subid '%s'", i, step.SubID))
			} else {
				subIDs[step.SubID] = true
			}
			continue
		}

		if step.ID == "" {
			findings = append(findings, fmt.Sprintf("step %d: missing 'id' field", i))
		} else if stepIDs[step.ID] {
			findings = append(findings, fmt.Sprintf("step %d: duplicate step id '%s'", i, step.ID))
		} else {
			stepIDs[step.ID] = true
		}

		if step.Type == "" {
			findings = append(findings, fmt.Sprintf("step %d: missing 'type' field", i))
		} else if !IsValidStepType(step.Type) {
			findings = append(findings, fmt.Sprintf("step %d: invalid step type '%s'", i, step.Type))
		}

		if step.Message == "" && step.Type != StepComputed && step.Type != StepInfo {
			findings = append(findings, fmt.Sprintf("step %d: missing 'message' field", i))
		}

		if (step.Type == StepSelect || step.Type == StepMultiSelect) && len(step.Choices) == 0 {
			findings = append(findings, fmt.Sprintf("step %d: %s step missing 'choices' field", i, step.Type))
		}
	}
	return findings
}

// strictFindings runs the production-readiness heuristics. These flag
// likely-forgotten scaffolding, not semantic errors; callers decide whether
// to treat them as warnings or failures.
func strictFindings(steps []Step) []string {
	var findings []string

	for i, step := range steps {
		if step.IsSublayoutRef() {
			continue
		}

		if hasPlaceholderPrefix(step.ID) {
			findings = append(findings, fmt.Sprintf("step %d (%s): %s", i, step.ID, placeholderIDReason))
		}

		for _, generic := range genericMessages {
			if step.Message == generic {
				findings = append(findings, fmt.Sprintf("step %d (%s): generic message %q - should be customized for production", i, step.ID, step.Message))
				break
			}
		}

		for _, generic := range genericInstructions {
			if step.Instruction == generic {
				findings = append(findings, fmt.Sprintf("step %d (%s): generic instruction %q - should be customized for production", i, step.ID, step.Instruction))
				break
			}
		}

		if step.ID == templateStepID && step.Type == templateStepType &&
			step.Message == templateMessage && step.Instruction == templateInstruction {
			findings = append(findings, fmt.Sprintf("step %d: %s", i, templateFlagReason))
		}
	}

	if len(steps) == 1 && !steps[0].IsSublayoutRef() && hasPlaceholderPrefix(steps[0].ID) {
		findings = append(findings, singleStepFlagReason)
	}
	return findings
}

func hasPlaceholderPrefix(id string) bool {
	lower := strings.ToLower(id)
	for _, prefix := range placeholderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
