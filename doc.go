/*
Package espalier renders interactive terminal forms from declarative YAML definitions.

It interprets a flow definition step by step, deciding which steps to show, compute, or skip; evaluates conditional-visibility and computed-field expressions; expands modular sublayout references into one flat executable definition; and validates definitions for structural correctness and production-readiness before any prompt is shown.

# Concept

Espalier treats a form as data: a YAML document declaring an ordered list of steps (text, select, multiselect, confirm, password, computed, info). The engine owns sequencing, conditional logic, defaults, and output shaping, while the prompt collaborator owns the actual terminal interaction. Swapping the Prompter swaps the interface without touching flow logic, which is also how mock-driven automated testing works.

# Key Features

  - Declarative flows: wizards and surveys defined as YAML, not imperative prompt code.
  - Composition: sublayout fragments spliced into parent flows, with layered defaults.
  - Conditional logic: visibility expressions and computed fields over prior answers.
  - Strict validation: structural checks plus heuristics that catch forgotten scaffolding.
  - Deterministic testing: mock answers short-circuit prompting entirely.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/espalier"
	)

	func main() {
		eng, err := espalier.New("./flows")
		if err != nil {
			log.Fatal(err)
		}

		result, err := eng.Run(context.Background(), "onboarding", nil)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(result)
	}
*/
package espalier
