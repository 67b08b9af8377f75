// Package expr implements the minimal expression grammar used by flow
// definitions: equality comparisons against literals and bare-key
// truthiness checks, both resolved against the accumulated answer context.
//
// This is deliberately not a general-purpose expression language.
// Conditions must be storable as data in YAML, so only a deterministic,
// side-effect-free grammar is supported; an unknown or missing expression
// evaluates to false rather than erroring.
package expr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Evaluate resolves an expression against the context.
//
// Expressions containing `==` are split on the first occurrence: the left
// side is a dotted path into the context, the right side a literal. The
// literal is coerced before comparison: the keywords true/false become
// booleans, integer-looking tokens become ints, float-looking tokens
// floats, everything else a string with surrounding quotes stripped. When
// the looked-up value is itself a string the raw (quote-stripped) literal
// is compared as a string instead, so `count == 3` holds for both a
// numeric 3 and the string "3".
//
// An expression without `==` that names a context key yields that value's
// truthiness. Anything else yields false.
func Evaluate(expression string, ctx map[string]any) any {
	if left, right, found := strings.Cut(expression, "=="); found {
		leftValue := Lookup(ctx, strings.TrimSpace(left))
		raw := strings.Trim(strings.TrimSpace(right), `'"`)
		return equal(leftValue, raw)
	}

	if value, ok := ctx[expression]; ok {
		return Truthy(value)
	}
	return false
}

// EvaluateCondition is Evaluate narrowed to the boolean result used for
// step visibility.
func EvaluateCondition(expression string, ctx map[string]any) bool {
	result, _ := Evaluate(expression, ctx).(bool)
	return result
}

// Lookup resolves a dotted path against nested mappings. Any missing
// segment yields nil.
func Lookup(ctx map[string]any, path string) any {
	var value any = ctx
	for _, key := range strings.Split(path, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		value, ok = m[key]
		if !ok {
			return nil
		}
	}
	return value
}

// equal compares a context value against the raw literal token, coercing
// the literal to match the runtime type of the value.
func equal(value any, raw string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v == raw
	case bool:
		if parsed, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
			return v == parsed
		}
		return false
	}

	if left, ok := asFloat(value); ok {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			return left == parsed
		}
		return false
	}
	return false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Truthy reports the truthiness of an answer value: nil, false, empty
// strings, zero numbers, and empty collections are false.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if f, ok := asFloat(value); ok {
		return f != 0
	}
	return true
}

var previewPlaceholder = regexp.MustCompile(`\{([^}]+)\}`)

// FormatPreview substitutes {dotted.path} placeholders from the context.
// Missing paths render literally as {path}, not blank, so typos stay
// visible in the output.
func FormatPreview(template string, ctx map[string]any) string {
	return previewPlaceholder.ReplaceAllStringFunc(template, func(match string) string {
		path := match[1 : len(match)-1]
		value := Lookup(ctx, path)
		if value == nil {
			return match
		}
		return stringify(value)
	})
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}
