// Package schema defines the data model for YAML-declared interactive
// forms: the flow definition document, its polymorphic steps, choices,
// defaults files, and the definition validator.
//
// A definition is parsed fresh from YAML on every execution or validation
// request. Steps form a tagged variant over a closed set of kinds (text,
// select, multiselect, confirm, password, computed, info); a step carrying
// a `sublayout` path instead of a type is a reference to a fragment that
// the layout expander splices in before execution.
//
// Validation collects every finding rather than stopping at the first:
//
//	def, _ := schema.Load("flows/onboarding.yml")
//	for _, finding := range schema.Validate(def, true) {
//	    fmt.Println(finding)
//	}
//
// Strict mode additionally flags likely-unfinished scaffolding (placeholder
// ids, generic prompt texts, the untouched generator template). Those are
// heuristics, not semantic errors; callers choose their severity.
package schema
