package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Step type constants define the closed set of interactive step kinds.
const (
	StepText        = "text"
	StepSelect      = "select"
	StepMultiSelect = "multiselect"
	StepConfirm     = "confirm"
	StepPassword    = "password"
	StepComputed    = "computed"
	StepInfo        = "info"
)

// StepTypes is the closed set of valid step type strings.
var StepTypes = []string{
	StepText, StepSelect, StepMultiSelect, StepConfirm, StepPassword, StepComputed, StepInfo,
}

// IsValidStepType reports whether t names a known step kind.
func IsValidStepType(t string) bool {
	for _, known := range StepTypes {
		if t == known {
			return true
		}
	}
	return false
}

// FlowDefinition is the root document of a YAML-defined form.
type FlowDefinition struct {
	// LayoutID identifies the flow. Populated from `layout_id`, with `id`
	// accepted as a legacy alias.
	LayoutID    string `yaml:"layout_id" mapstructure:"layout_id"`
	Title       string `yaml:"title" mapstructure:"title"`
	Description string `yaml:"description" mapstructure:"description"`
	Icon        string `yaml:"icon" mapstructure:"icon"`
	Version     string `yaml:"version" mapstructure:"version"`

	// DefaultsFile is a relative path to a defaults document providing
	// flow-wide default answers.
	DefaultsFile string `yaml:"defaults_file,omitempty" mapstructure:"defaults_file"`

	// SublayoutDefaults is declared by standalone sublayout fragments: a
	// relative path to the fragment's own defaults file. Its presence
	// (without a layout_id) is how fragments are recognized.
	SublayoutDefaults string `yaml:"sublayout_defaults,omitempty" mapstructure:"sublayout_defaults"`

	Steps []Step `yaml:"steps" mapstructure:"steps"`

	// OutputMapping is an optional tree whose leaves name step ids; when
	// present the executor reshapes the flat answer map through it.
	OutputMapping map[string]any `yaml:"output_mapping,omitempty" mapstructure:"output_mapping"`

	// HasSublayoutDefaults distinguishes an empty sublayout_defaults value
	// from an absent key during fragment detection.
	HasSublayoutDefaults bool `yaml:"-" mapstructure:"-"`
}

// IsFragment reports whether the document is a sublayout fragment rather
// than a runnable flow (no layout_id, but a sublayout_defaults declaration).
func (d *FlowDefinition) IsFragment() bool {
	return d.LayoutID == "" && d.HasSublayoutDefaults
}

// Step is one unit of interaction or computation. It is a tagged variant
// over the step kinds: Type selects the behavior and only the matching
// fields are meaningful. A step carrying Sublayout instead of Type is a
// sublayout reference to be spliced in by the layout expander.
type Step struct {
	ID   string `yaml:"id,omitempty" mapstructure:"id"`
	Type string `yaml:"type,omitempty" mapstructure:"type"`

	Message     string `yaml:"message,omitempty" mapstructure:"message"`
	Instruction string `yaml:"instruction,omitempty" mapstructure:"instruction"`

	// Title and Icon render info steps as non-interactive section headers.
	Title string `yaml:"title,omitempty" mapstructure:"title"`
	Icon  string `yaml:"icon,omitempty" mapstructure:"icon"`

	// Condition gates visibility; When is an accepted alias.
	Condition string `yaml:"condition,omitempty" mapstructure:"condition"`
	When      string `yaml:"when,omitempty" mapstructure:"when"`

	// Compute holds the expression of computed steps.
	Compute string `yaml:"compute,omitempty" mapstructure:"compute"`

	// Preview is a template rendered after answering; {dotted.path}
	// placeholders are substituted from the answer context.
	Preview string `yaml:"preview,omitempty" mapstructure:"preview"`

	// Validate names a registered answer validator.
	Validate string `yaml:"validate,omitempty" mapstructure:"validate"`

	// Default is nil when the step declares no hardcoded default.
	Default any `yaml:"default,omitempty" mapstructure:"default"`

	Choices []Choice `yaml:"choices,omitempty" mapstructure:"-"`

	// Sublayout references carry a relative path plus a subid instead of
	// a type.
	Sublayout string `yaml:"sublayout,omitempty" mapstructure:"sublayout"`
	SubID     string `yaml:"subid,omitempty" mapstructure:"subid"`
}

// IsSublayoutRef reports whether the step is a sublayout reference.
func (s *Step) IsSublayoutRef() bool {
	return s.Sublayout != ""
}

// VisibilityCondition returns the gating expression, preferring `condition`
// over the `when` alias. Empty means always visible.
func (s *Step) VisibilityCondition() string {
	if s.Condition != "" {
		return s.Condition
	}
	return s.When
}

// Choice is one entry of a select/multiselect step. Entries are either bare
// display strings or {name, value} pairs; when a value is present it is the
// recorded answer, not the display name.
type Choice struct {
	Name     string `yaml:"name"`
	Value    any    `yaml:"value,omitempty"`
	HasValue bool   `yaml:"-"`
}

// AnswerValue returns what should be recorded when this choice is picked.
func (c Choice) AnswerValue() any {
	if c.HasValue {
		return c.Value
	}
	return c.Name
}

// UnmarshalYAML decodes a choice from either a scalar string or a
// {name, value} mapping.
func (c *Choice) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Name)
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("invalid choice entry: %w", err)
	}
	name, ok := raw["name"].(string)
	if !ok {
		return fmt.Errorf("choice mapping missing 'name'")
	}
	c.Name = name
	if value, ok := raw["value"]; ok {
		c.Value = value
		c.HasValue = true
	}
	return nil
}

// MarshalYAML writes bare strings back for plain choices so snapshots stay
// close to the source documents.
func (c Choice) MarshalYAML() (any, error) {
	if !c.HasValue {
		return c.Name, nil
	}
	return map[string]any{"name": c.Name, "value": c.Value}, nil
}

// UnmarshalYAML decodes a step from its raw mapping. Steps are polymorphic,
// so decoding goes through a generic map and mapstructure fills the variant
// fields; choices keep their own decoder to preserve the string-or-pair
// duality.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("invalid step entry: %w", err)
	}

	if err := mapstructure.Decode(raw, s); err != nil {
		return fmt.Errorf("invalid step fields: %w", err)
	}

	if _, ok := raw["choices"]; ok {
		var shadow struct {
			Choices []Choice `yaml:"choices"`
		}
		if err := node.Decode(&shadow); err != nil {
			return fmt.Errorf("invalid choices: %w", err)
		}
		s.Choices = shadow.Choices
	}
	return nil
}

// UnmarshalYAML decodes the root document, accepting `id` as an alias for
// `layout_id` and tracking the presence of `sublayout_defaults`.
func (d *FlowDefinition) UnmarshalYAML(node *yaml.Node) error {
	type plain FlowDefinition
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = FlowDefinition(p)

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if d.LayoutID == "" {
		if id, ok := raw["id"].(string); ok {
			d.LayoutID = id
		}
	}
	_, d.HasSublayoutDefaults = raw["sublayout_defaults"]
	return nil
}

// DefaultsFile is the document shape of a defaults file: a single `defaults`
// mapping from step id to default answer.
type DefaultsFile struct {
	Defaults map[string]any `yaml:"defaults"`
}
