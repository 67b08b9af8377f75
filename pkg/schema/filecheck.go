package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateFile runs the whole-file validation pass: it loads the definition
// at path, validates it as a layout or a standalone fragment, and then
// follows every file reference the definition makes (sublayouts, the global
// defaults file, per-sublayout defaults) and validates those too. Findings
// from referenced files are prefixed with their origin so a report over a
// deep layout tree still reads top-down.
func ValidateFile(path string, strict bool) []string {
	return validateFile(path, strict, map[string]bool{})
}

func validateFile(path string, strict bool, visited map[string]bool) []string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if visited[abs] {
		return []string{fmt.Sprintf("circular sublayout reference: %s", path)}
	}
	visited[abs] = true
	defer delete(visited, abs)

	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	def, err := Parse(data)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", path, err)}
	}

	var findings []string
	if def.IsFragment() {
		findings = ValidateFragment(def, strict)
	} else {
		findings = Validate(def, strict)
	}

	dir := filepath.Dir(path)
	findings = append(findings, checkDefaultsRefs(def, dir)...)
	findings = append(findings, checkSublayoutRefs(def, dir, strict, visited)...)

	if strict {
		findings = append(findings, scanUnfinishedMarkers(data)...)
	}
	return findings
}

// checkDefaultsRefs verifies that every defaults file the definition names
// exists and has the expected `defaults:` mapping shape.
func checkDefaultsRefs(def *FlowDefinition, dir string) []string {
	var findings []string

	check := func(label, ref string) {
		resolved := filepath.Join(dir, ref)
		if _, err := os.Stat(resolved); err != nil {
			findings = append(findings, fmt.Sprintf("%s '%s' not found", label, ref))
			return
		}
		if _, err := LoadDefaults(resolved); err != nil {
			findings = append(findings, fmt.Sprintf("%s '%s': %v", label, ref, err))
		}
	}

	if def.DefaultsFile != "" {
		check("defaults_file", def.DefaultsFile)
	}
	if def.SublayoutDefaults != "" {
		check("sublayout_defaults", def.SublayoutDefaults)
	}
	return findings
}

func checkSublayoutRefs(def *FlowDefinition, dir string, strict bool, visited map[string]bool) []string {
	var findings []string
	for i, step := range def.Steps {
		if !step.IsSublayoutRef() {
			continue
		}
		resolved := filepath.Join(dir, step.Sublayout)
		if _, err := os.Stat(resolved); err != nil {
			findings = append(findings, fmt.Sprintf("step %d: sublayout file '%s' not found", i, step.Sublayout))
			continue
		}
		for _, sub := range validateFile(resolved, strict, visited) {
			findings = append(findings, fmt.Sprintf("step %d (sublayout %s): %s", i, step.Sublayout, sub))
		}
	}
	return findings
}

// scanUnfinishedMarkers flags work-in-progress markers left in the raw
// document. Applied to the source text, not the decoded definition, so
// markers in comments are caught too.
func scanUnfinishedMarkers(data []byte) []string {
	var findings []string
	for i, line := range strings.Split(string(data), "\n") {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "TODO") || strings.Contains(upper, "FIXME") {
			findings = append(findings, fmt.Sprintf("line %d: unfinished marker in document: %s", i+1, strings.TrimSpace(line)))
		}
	}
	return findings
}
