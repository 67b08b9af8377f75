package preprocess

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/schema"
)

// ErrCircularReference is returned when a sublayout chain reaches a file
// that is already being expanded. This is a hard failure: following the
// reference would recurse without bound.
var ErrCircularReference = errors.New("circular sublayout reference")

// Expander flattens a modular flow definition into a single executable one
// by splicing every sublayout reference's steps in place ("virtual layout"
// reconstruction).
type Expander struct {
	logger *slog.Logger
}

// NewExpander creates an expander. A nil logger falls back to a no-op.
func NewExpander(logger *slog.Logger) *Expander {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Expander{logger: logger}
}

// Expand loads the definition at layoutPath and returns a flattened copy.
// The source definition on disk is never mutated; expansion produces a new
// document carrying the root's metadata and the merged step sequence.
func (e *Expander) Expand(layoutPath string) (*schema.FlowDefinition, error) {
	root, err := schema.Load(layoutPath)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("invalid layout path: %w", err)
	}

	e.logger.Info("reconstructing virtual layout", "layout", filepath.Base(layoutPath))

	visiting := map[string]bool{abs: true}
	steps, err := e.expandSteps(root.Steps, filepath.Dir(abs), visiting)
	if err != nil {
		return nil, err
	}

	expanded := *root
	expanded.Steps = steps

	if err := checkStepIDs(expanded.Steps); err != nil {
		return nil, err
	}

	e.logger.Info("virtual layout created", "steps", len(expanded.Steps))
	return &expanded, nil
}

// ExpandToFile expands and additionally persists the flattened definition
// as a YAML snapshot for inspection. The snapshot is purely diagnostic and
// never read back by the executor.
func (e *Expander) ExpandToFile(layoutPath, outputPath string) (*schema.FlowDefinition, error) {
	expanded, err := e.Expand(layoutPath)
	if err != nil {
		return nil, err
	}
	if err := writeYAML(outputPath, expanded); err != nil {
		return nil, err
	}
	e.logger.Info("virtual layout saved", "path", outputPath)
	return expanded, nil
}

func (e *Expander) expandSteps(steps []schema.Step, baseDir string, visiting map[string]bool) ([]schema.Step, error) {
	expanded := make([]schema.Step, 0, len(steps))

	for _, step := range steps {
		if !step.IsSublayoutRef() {
			expanded = append(expanded, step)
			continue
		}

		subPath := step.Sublayout
		if !filepath.IsAbs(subPath) {
			subPath = filepath.Join(baseDir, subPath)
		}
		abs, err := filepath.Abs(subPath)
		if err != nil {
			return nil, fmt.Errorf("invalid sublayout path %s: %w", step.Sublayout, err)
		}
		if visiting[abs] {
			return nil, fmt.Errorf("%w: %s", ErrCircularReference, step.Sublayout)
		}

		sub, err := schema.Load(abs)
		if err != nil {
			return nil, fmt.Errorf("sublayout %s: %w", step.Sublayout, err)
		}

		e.logger.Info("merging sublayout", "subid", step.SubID, "file", filepath.Base(abs))
		if len(sub.Steps) == 0 {
			e.logger.Warn("sublayout contains no steps", "file", filepath.Base(abs))
		}

		if header, ok := headerStep(sub, step.SubID, abs); ok {
			expanded = append(expanded, header)
		}

		visiting[abs] = true
		subSteps, err := e.expandSteps(sub.Steps, filepath.Dir(abs), visiting)
		if err != nil {
			return nil, err
		}
		delete(visiting, abs)

		expanded = append(expanded, subSteps...)
	}
	return expanded, nil
}

// headerStep synthesizes an info-type section header from a sublayout's own
// title/description, so the merged flow keeps its visual structure.
func headerStep(sub *schema.FlowDefinition, subID, path string) (schema.Step, bool) {
	if sub.Title == "" && sub.Description == "" {
		return schema.Step{}, false
	}

	name := sub.LayoutID
	if name == "" {
		name = subID
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	title := sub.Title
	if title == "" {
		title = "Section"
	}
	return schema.Step{
		ID:      "_header_" + name,
		Type:    schema.StepInfo,
		Title:   title,
		Icon:    sub.Icon,
		Message: sub.Description,
	}, true
}

// checkStepIDs verifies global id uniqueness across the flattened sequence.
// Colliding ids across merged sublayouts would silently overwrite answers,
// so this is a hard failure.
func checkStepIDs(steps []schema.Step) error {
	seen := make(map[string]bool)
	var duplicates []string
	for _, step := range steps {
		if step.ID == "" {
			continue
		}
		if seen[step.ID] {
			duplicates = append(duplicates, step.ID)
		}
		seen[step.ID] = true
	}
	if len(duplicates) > 0 {
		return fmt.Errorf("duplicate step ids after expansion: %s", strings.Join(duplicates, ", "))
	}
	return nil
}

func writeYAML(path string, doc any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
