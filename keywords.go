package konf

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"unicode/utf8"
)

// keywordFunc is the signature of a single keyword rule. arg is the keyword's
// value in the active schema node, node the whole active node (so modifiers
// like exclusiveMaximum can be read from the same level). Returning false
// stops the walk; a non-nil error is structural (bad pattern, unknown type)
// and aborts validation entirely.
type keywordFunc func(v *Validator, arg, instance any, node map[string]any, emit func(Issue) bool) (bool, error)

// keywords is assigned in init: the recursive rules (properties, items,
// dependencies) dispatch back through walk, which reads this table, so a
// composite-literal initializer would form an initialization cycle.
var keywords map[string]keywordFunc

func init() {
	keywords = map[string]keywordFunc{
		"type":            kwType,
		"properties":      kwProperties,
		"required":        kwRequired,
		"items":           kwItems,
		"additionalItems": kwAdditionalItems,
		"minimum":         kwMinimum,
		"maximum":         kwMaximum,
		"minLength":       kwMinLength,
		"maxLength":       kwMaxLength,
		"minItems":        kwMinItems,
		"maxItems":        kwMaxItems,
		"multipleOf":      kwMultipleOf,
		"pattern":         kwPattern,
		"uniqueItems":     kwUniqueItems,
		"dependencies":    kwDependencies,
	}
}

// annotationKeys never dispatch a rule and never warn: they are either pure
// annotations or modifiers consumed by another keyword's rule.
var annotationKeys = map[string]bool{
	"default":          true,
	"definitions":      true,
	"description":      true,
	"exclusiveMaximum": true,
	"exclusiveMinimum": true,
	"format":           true,
	"id":               true,
	"$schema":          true,
	"title":            true,
}

func kwType(v *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	var names []string
	switch t := arg.(type) {
	case string:
		names = []string{t}
	case []any:
		for _, n := range t {
			if s, ok := n.(string); ok {
				names = append(names, s)
			}
		}
	default:
		return true, nil
	}
	for _, name := range names {
		ok, err := v.isType(instance, name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return emit(Issue{
		Message: fmt.Sprintf("%v is not of type %v", instance, names),
		Params:  map[string]any{"expected": names},
	}), nil
}

func kwProperties(v *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	props, ok := arg.(map[string]any)
	if !ok {
		return true, nil
	}
	obj, ok := instance.(map[string]any)
	if !ok {
		// Only objects have properties to check.
		return true, nil
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sub, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		if val, present := obj[name]; present {
			child := childEmit(name, emit)
			cont, err := v.walk(val, sub, child)
			if err != nil || !cont {
				return cont, err
			}
			continue
		}
		// Draft-4-ish local form: the property marks itself required in its
		// own sub-schema.
		if req, _ := sub["required"].(bool); req {
			if !emit(Issue{
				Path:    Path{name},
				Rule:    RuleRequired,
				Message: fmt.Sprintf("%q is a required property", name),
			}) {
				return false, nil
			}
		}
	}
	return true, nil
}

// childEmit prepends key to the path of every bubbled issue, so paths are
// assembled from root to the offending value on the way back up.
func childEmit(key string, emit func(Issue) bool) func(Issue) bool {
	return func(is Issue) bool {
		is.Path = is.Path.prepend(key)
		return emit(is)
	}
}

func kwRequired(_ *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	// The boolean form inside a property sub-schema is handled by the parent
	// object's properties rule; only the list form dispatches here.
	list, ok := arg.([]any)
	if !ok {
		return true, nil
	}
	obj, ok := instance.(map[string]any)
	if !ok {
		return true, nil
	}
	for _, raw := range list {
		name, ok := raw.(string)
		if !ok {
			continue
		}
		if _, present := obj[name]; !present {
			if !emit(Issue{
				Path:    Path{name},
				Rule:    RuleRequired,
				Message: fmt.Sprintf("%q is a required property", name),
			}) {
				return false, nil
			}
		}
	}
	return true, nil
}

func kwItems(v *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	arr, ok := instance.([]any)
	if !ok {
		return true, nil
	}
	switch sub := arg.(type) {
	case map[string]any:
		for i, el := range arr {
			cont, err := v.walk(el, sub, childEmit(fmt.Sprintf("%d", i), emit))
			if err != nil || !cont {
				return cont, err
			}
		}
	case []any:
		for i, el := range arr {
			if i >= len(sub) {
				break
			}
			s, ok := sub[i].(map[string]any)
			if !ok {
				continue
			}
			cont, err := v.walk(el, s, childEmit(fmt.Sprintf("%d", i), emit))
			if err != nil || !cont {
				return cont, err
			}
		}
	}
	return true, nil
}

func kwAdditionalItems(v *Validator, arg, instance any, node map[string]any, emit func(Issue) bool) (bool, error) {
	arr, ok := instance.([]any)
	if !ok {
		return true, nil
	}
	// additionalItems only constrains elements beyond a tuple-form items list.
	tuple, ok := node["items"].([]any)
	if !ok || len(arr) <= len(tuple) {
		return true, nil
	}
	switch t := arg.(type) {
	case bool:
		if !t {
			return emit(Issue{
				Message: fmt.Sprintf("additional items are not allowed (%d items, %d permitted)", len(arr), len(tuple)),
				Params:  map[string]any{"permitted": len(tuple), "got": len(arr)},
			}), nil
		}
	case map[string]any:
		for i := len(tuple); i < len(arr); i++ {
			cont, err := v.walk(arr[i], t, childEmit(fmt.Sprintf("%d", i), emit))
			if err != nil || !cont {
				return cont, err
			}
		}
	}
	return true, nil
}

func kwMinimum(_ *Validator, arg, instance any, node map[string]any, emit func(Issue) bool) (bool, error) {
	val, ok := numberValue(instance)
	if !ok {
		return true, nil
	}
	bound, ok := numberValue(arg)
	if !ok {
		return true, nil
	}
	excl, _ := node["exclusiveMinimum"].(bool)
	valid := val >= bound
	if excl {
		valid = val > bound
	}
	if valid {
		return true, nil
	}
	orEqual := ""
	if excl {
		orEqual = " or equal to"
	}
	return emit(Issue{
		Message: fmt.Sprintf("%v is less than%s the minimum of %v", instance, orEqual, arg),
		Params:  map[string]any{"minimum": bound, "exclusive": excl, "got": val},
	}), nil
}

func kwMaximum(_ *Validator, arg, instance any, node map[string]any, emit func(Issue) bool) (bool, error) {
	val, ok := numberValue(instance)
	if !ok {
		return true, nil
	}
	bound, ok := numberValue(arg)
	if !ok {
		return true, nil
	}
	excl, _ := node["exclusiveMaximum"].(bool)
	valid := val <= bound
	if excl {
		valid = val < bound
	}
	if valid {
		return true, nil
	}
	orEqual := ""
	if excl {
		orEqual = " or equal to"
	}
	return emit(Issue{
		Message: fmt.Sprintf("%v is greater than%s the maximum of %v", instance, orEqual, arg),
		Params:  map[string]any{"maximum": bound, "exclusive": excl, "got": val},
	}), nil
}

func kwMinLength(_ *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	s, ok := instance.(string)
	if !ok {
		return true, nil
	}
	min, ok := intValue(arg)
	if !ok || min < 0 {
		return true, nil
	}
	if n := utf8.RuneCountInString(s); n < min {
		return emit(Issue{
			Message: fmt.Sprintf("%q is shorter than the minimum length of %d", s, min),
			Params:  map[string]any{"minLength": min, "got": n},
		}), nil
	}
	return true, nil
}

func kwMaxLength(_ *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	s, ok := instance.(string)
	if !ok {
		return true, nil
	}
	max, ok := intValue(arg)
	if !ok || max < 0 {
		return true, nil
	}
	if n := utf8.RuneCountInString(s); n > max {
		return emit(Issue{
			Message: fmt.Sprintf("%q is longer than the maximum length of %d", s, max),
			Params:  map[string]any{"maxLength": max, "got": n},
		}), nil
	}
	return true, nil
}

func kwMinItems(_ *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	arr, ok := instance.([]any)
	if !ok {
		return true, nil
	}
	min, ok := intValue(arg)
	if !ok {
		return true, nil
	}
	if len(arr) < min {
		return emit(Issue{
			Message: fmt.Sprintf("array has fewer than the minimum of %d items", min),
			Params:  map[string]any{"minItems": min, "got": len(arr)},
		}), nil
	}
	return true, nil
}

func kwMaxItems(_ *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	arr, ok := instance.([]any)
	if !ok {
		return true, nil
	}
	max, ok := intValue(arg)
	if !ok {
		return true, nil
	}
	if len(arr) > max {
		return emit(Issue{
			Message: fmt.Sprintf("array has more than the maximum of %d items", max),
			Params:  map[string]any{"maxItems": max, "got": len(arr)},
		}), nil
	}
	return true, nil
}

func kwMultipleOf(_ *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	val, ok := numberValue(instance)
	if !ok {
		return true, nil
	}
	mult, ok := numberValue(arg)
	if !ok || mult == 0 {
		return true, nil
	}
	div := val / mult
	if math.Abs(div-math.Round(div)) > 1e-9 {
		return emit(Issue{
			Message: fmt.Sprintf("%v is not a multiple of %v", instance, arg),
			Params:  map[string]any{"multipleOf": mult, "got": val},
		}), nil
	}
	return true, nil
}

func kwPattern(_ *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	s, ok := instance.(string)
	if !ok {
		return true, nil
	}
	expr, ok := arg.(string)
	if !ok {
		return true, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false, &SchemaError{Message: fmt.Sprintf("invalid pattern %q: %v", expr, err), Rule: RulePattern}
	}
	if !re.MatchString(s) {
		return emit(Issue{
			Message: fmt.Sprintf("%q does not match pattern %q", s, expr),
			Params:  map[string]any{"pattern": expr},
		}), nil
	}
	return true, nil
}

func kwUniqueItems(_ *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	unique, _ := arg.(bool)
	if !unique {
		return true, nil
	}
	arr, ok := instance.([]any)
	if !ok {
		return true, nil
	}
	for i := 0; i < len(arr); i++ {
		for j := i + 1; j < len(arr); j++ {
			if reflect.DeepEqual(arr[i], arr[j]) {
				return emit(Issue{
					Message: fmt.Sprintf("array items %d and %d are equal but must be unique", i, j),
					Params:  map[string]any{"first": i, "second": j},
				}), nil
			}
		}
	}
	return true, nil
}

func kwDependencies(v *Validator, arg, instance any, _ map[string]any, emit func(Issue) bool) (bool, error) {
	deps, ok := arg.(map[string]any)
	if !ok {
		return true, nil
	}
	obj, ok := instance.(map[string]any)
	if !ok {
		return true, nil
	}
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, present := obj[name]; !present {
			continue
		}
		switch dep := deps[name].(type) {
		case []any:
			// Property dependency: the named properties must also be present.
			for _, raw := range dep {
				want, ok := raw.(string)
				if !ok {
					continue
				}
				if _, present := obj[want]; !present {
					if !emit(Issue{
						Path:    Path{want},
						Message: fmt.Sprintf("%q is required when %q is present", want, name),
						Params:  map[string]any{"dependentOn": name},
					}) {
						return false, nil
					}
				}
			}
		case map[string]any:
			// Schema dependency: the whole object must also conform.
			cont, err := v.walk(instance, dep, emit)
			if err != nil || !cont {
				return cont, err
			}
		}
	}
	return true, nil
}

// intValue extracts a non-negative-friendly integer from any numeric
// representation the decoders produce.
func intValue(v any) (int, bool) {
	f, ok := numberValue(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
