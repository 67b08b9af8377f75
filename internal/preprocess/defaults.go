package preprocess

import (
	"log/slog"
	"path/filepath"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/schema"
)

// DefaultsMerger builds the unified default-answer mapping for a flow:
// the flow's own defaults file as the base layer, overlaid by the defaults
// declared by each directly referenced sublayout. Later layers win
// key-by-key (shallow override, not a deep merge).
//
// Priority, highest to lowest: sublayout defaults, flow-wide defaults, a
// step's own hardcoded `default` field (applied by the executor only when
// neither external layer names the step).
type DefaultsMerger struct {
	logger *slog.Logger
}

// NewDefaultsMerger creates a merger. A nil logger falls back to a no-op.
func NewDefaultsMerger(logger *slog.Logger) *DefaultsMerger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DefaultsMerger{logger: logger}
}

// Merge collects the layered defaults for the definition at layoutPath.
// A missing or malformed defaults file at any layer is a soft failure:
// defaults are an enhancement, not a requirement, so the layer degrades to
// "nothing extra" and merging continues. Callers that need strictness
// validate defaults files explicitly instead.
func (m *DefaultsMerger) Merge(layoutPath string, def *schema.FlowDefinition) map[string]any {
	merged := make(map[string]any)
	layoutDir := filepath.Dir(layoutPath)

	if def.DefaultsFile != "" {
		global := m.loadLayer(filepath.Join(layoutDir, def.DefaultsFile))
		for k, v := range global {
			merged[k] = v
		}
		m.logger.Info("loaded global defaults", "count", len(global))
	}

	// Only direct children contribute a sublayout layer; deeper nesting is
	// intentionally not walked.
	for _, step := range def.Steps {
		if !step.IsSublayoutRef() {
			continue
		}
		subPath := filepath.Join(layoutDir, step.Sublayout)
		sub, err := schema.Load(subPath)
		if err != nil {
			m.logger.Warn("skipping defaults from unreadable sublayout", "file", step.Sublayout, "err", err)
			continue
		}
		if sub.SublayoutDefaults == "" {
			continue
		}

		// Declared relative to the sublayout file's own directory.
		layer := m.loadLayer(filepath.Join(filepath.Dir(subPath), sub.SublayoutDefaults))
		for k, v := range layer {
			merged[k] = v
		}
		if len(layer) > 0 {
			m.logger.Info("merged sublayout defaults", "file", step.Sublayout, "count", len(layer))
		}
	}

	m.logger.Info("unified defaults ready", "total", len(merged))
	return merged
}

// MergeToFile merges and persists the unified mapping as a `{defaults: ...}`
// YAML snapshot for inspection.
func (m *DefaultsMerger) MergeToFile(layoutPath string, def *schema.FlowDefinition, outputPath string) (map[string]any, error) {
	merged := m.Merge(layoutPath, def)
	if err := writeYAML(outputPath, schema.DefaultsFile{Defaults: merged}); err != nil {
		return nil, err
	}
	m.logger.Info("unified defaults saved", "path", outputPath)
	return merged, nil
}

func (m *DefaultsMerger) loadLayer(path string) map[string]any {
	defaults, err := schema.LoadDefaults(path)
	if err != nil {
		m.logger.Warn("defaults layer unavailable", "path", path, "err", err)
		return nil
	}
	return defaults
}
