package konf

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// TypeChecker reports whether a decoded JSON value belongs to a named type.
type TypeChecker func(v any) bool

// Validator validates JSON instances against a JSON Schema (draft-4-like)
// document. It is a pure recursive-descent walker: for every keyword present
// in the active schema node the matching rule runs, keywords without a rule
// produce a Diag warning (JSON Schema semantics: unknown keywords are
// permissive), and a constraint is evaluated only when the instance is of the
// applicable JSON type for that keyword.
type Validator struct {
	schema map[string]any
	types  map[string]TypeChecker
	diag   Diag
}

// NewValidator loads a schema from src and, unless opted out, validates it
// against the embedded meta-schema using this same engine. A schema that
// fails the meta-schema is a *SchemaError.
func NewValidator(src Source, opts ...ValidateOpt) (*Validator, error) {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	raw, err := src.Document(LoadOpt{})
	if err != nil {
		return nil, err
	}
	schema, ok := raw.(map[string]any)
	if !ok {
		return nil, &SchemaError{Message: fmt.Sprintf("schema must be an object, got %T", raw)}
	}
	if !opt.SkipSchemaCheck {
		if err := CheckSchema(schema); err != nil {
			return nil, err
		}
	}
	v := &Validator{schema: schema, diag: opt.Diag}
	if v.diag == nil {
		v.diag = NewDiag()
	}
	v.types = make(map[string]TypeChecker, len(defaultTypes)+len(opt.Types))
	for name, c := range defaultTypes {
		v.types[name] = c
	}
	for name, c := range opt.Types {
		v.types[name] = c
	}
	return v, nil
}

// Diag exposes the warnings collected during validation runs.
func (v *Validator) Diag() Diag { return v.diag }

// Validate checks instance against the schema and collects every issue found.
// A nil/empty result means the instance conforms. Structural problems in the
// schema itself (unknown type names, bad patterns) surface as an error.
func (v *Validator) Validate(instance any) (Issues, error) {
	var iss Issues
	err := v.Each(instance, func(i Issue) bool {
		iss = append(iss, i)
		return true
	})
	return iss, err
}

// ValidateInstance is the fail-fast entry point: it stops at the first issue
// and returns it as an Issues error. Structural schema problems are returned
// as-is.
func (v *Validator) ValidateInstance(instance any) error {
	var first *Issue
	err := v.Each(instance, func(i Issue) bool {
		first = &i
		return false
	})
	if err != nil {
		return err
	}
	if first != nil {
		return Issues{*first}
	}
	return nil
}

// Each walks the instance lazily, calling visit for every issue as it is
// found. Returning false from visit stops the walk. Consuming the whole
// sequence performs full validation.
func (v *Validator) Each(instance any, visit func(Issue) bool) error {
	_, err := v.walk(instance, v.schema, visit)
	return err
}

// walk dispatches every keyword present in node against instance. It returns
// false when visit asked to stop. Keywords run in sorted order so issue order
// is deterministic.
func (v *Validator) walk(instance any, node map[string]any, visit func(Issue) bool) (bool, error) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		kw, ok := keywords[key]
		if !ok {
			if !annotationKeys[key] {
				warnTo(v.diag, "no rule for keyword %q in the schema", key)
			}
			continue
		}
		emit := func(is Issue) bool {
			if is.Rule == "" {
				// Tag with the dispatching keyword unless a deeper rule
				// already claimed the issue.
				is.Rule = key
			}
			return visit(is)
		}
		cont, err := kw(v, node[key], instance, node, emit)
		if err != nil {
			return false, err
		}
		if !cont {
			return false, nil
		}
	}
	return true, nil
}

// isType reports whether instance belongs to the named type. Unregistered
// names are schema-authoring errors.
func (v *Validator) isType(instance any, name string) (bool, error) {
	c, ok := v.types[name]
	if !ok {
		return false, &UnknownTypeError{Name: name}
	}
	return c(instance), nil
}

// defaultTypes registers the JSON primitive types plus "any". Numbers decoded
// by the Source layer arrive as json.Number; values constructed in memory may
// be native Go numerics, so both shapes are accepted.
var defaultTypes = map[string]TypeChecker{
	"object":  func(v any) bool { _, ok := v.(map[string]any); return ok },
	"array":   func(v any) bool { _, ok := v.([]any); return ok },
	"string":  func(v any) bool { _, ok := v.(string); return ok },
	"boolean": func(v any) bool { _, ok := v.(bool); return ok },
	"null":    func(v any) bool { return v == nil },
	"number":  isJSONNumber,
	"integer": isJSONInteger,
	"any":     func(v any) bool { return true },
}

func isJSONNumber(v any) bool {
	_, ok := numberValue(v)
	return ok
}

func isJSONInteger(v any) bool {
	f, ok := numberValue(v)
	if !ok {
		return false
	}
	return f == float64(int64(f))
}

// numberValue extracts a float64 from any numeric representation the decoders
// produce. Booleans are not numbers.
func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
