package konf_test

import (
	"errors"
	"reflect"
	"testing"

	konf "github.com/reoring/konf"
)

func mustValidator(t *testing.T, schema map[string]any, opts ...konf.ValidateOpt) *konf.Validator {
	t.Helper()
	v, err := konf.NewValidator(konf.Value(schema), opts...)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return v
}

func validateAll(t *testing.T, v *konf.Validator, instance any) konf.Issues {
	t.Helper()
	iss, err := v.Validate(instance)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	return iss
}

func TestValidator_RequiredProperty(t *testing.T) {
	v := mustValidator(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "integer", "required": true},
		},
	})
	iss := validateAll(t, v, map[string]any{})
	if len(iss) != 1 {
		t.Fatalf("expected exactly one issue, got %v", iss)
	}
	if iss[0].Rule != konf.RuleRequired {
		t.Fatalf("expected required rule, got %q", iss[0].Rule)
	}
	if !reflect.DeepEqual(iss[0].Path, konf.Path{"a"}) {
		t.Fatalf("expected path [a], got %v", iss[0].Path)
	}

	if iss := validateAll(t, v, map[string]any{"a": 1}); len(iss) != 0 {
		t.Fatalf("expected valid, got %v", iss)
	}
}

func TestValidator_RequiredListForm(t *testing.T) {
	v := mustValidator(t, map[string]any{
		"type":     "object",
		"required": []any{"a", "b"},
		"properties": map[string]any{
			"a": map[string]any{"type": "integer"},
		},
	})
	iss := validateAll(t, v, map[string]any{"a": 1})
	if len(iss) != 1 || iss[0].Rule != konf.RuleRequired || !reflect.DeepEqual(iss[0].Path, konf.Path{"b"}) {
		t.Fatalf("expected one required issue at [b], got %v", iss)
	}
}

func TestValidator_MaximumBounds(t *testing.T) {
	inclusive := mustValidator(t, map[string]any{"maximum": 5})
	if iss := validateAll(t, inclusive, 5); len(iss) != 0 {
		t.Fatalf("5 <= 5 must pass, got %v", iss)
	}
	if iss := validateAll(t, inclusive, 6); len(iss) != 1 || iss[0].Rule != konf.RuleMaximum {
		t.Fatalf("expected maximum violation, got %v", iss)
	}

	exclusive := mustValidator(t, map[string]any{"maximum": 5, "exclusiveMaximum": true})
	iss := validateAll(t, exclusive, 5)
	if len(iss) != 1 || iss[0].Rule != konf.RuleMaximum {
		t.Fatalf("5 < 5 must fail with a maximum-tagged issue, got %v", iss)
	}

	minimum := mustValidator(t, map[string]any{"minimum": 2, "exclusiveMinimum": true})
	if iss := validateAll(t, minimum, 2); len(iss) != 1 || iss[0].Rule != konf.RuleMinimum {
		t.Fatalf("expected minimum violation, got %v", iss)
	}
}

func TestValidator_InapplicableConstraintsPass(t *testing.T) {
	// maximum only constrains numbers; other instance types pass untouched.
	v := mustValidator(t, map[string]any{"maximum": 5, "minLength": 100})
	if iss := validateAll(t, v, "hello"); len(iss) != 1 || iss[0].Rule != konf.RuleMinLength {
		t.Fatalf("only minLength applies to a string, got %v", iss)
	}
	if iss := validateAll(t, v, true); len(iss) != 0 {
		t.Fatalf("no constraint applies to a bool, got %v", iss)
	}
}

func TestValidator_StringAndArrayBounds(t *testing.T) {
	v := mustValidator(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 2, "maxLength": 4},
			"tags": map[string]any{"type": "array", "minItems": 1, "maxItems": 2, "uniqueItems": true},
		},
	})
	iss := validateAll(t, v, map[string]any{"name": "x", "tags": []any{"a", "a"}})
	rules := map[string]bool{}
	for _, i := range iss {
		rules[i.Rule] = true
	}
	if !rules[konf.RuleMinLength] || !rules[konf.RuleUniqueItems] {
		t.Fatalf("expected minLength and uniqueItems violations, got %v", iss)
	}

	iss = validateAll(t, v, map[string]any{"tags": []any{"a", "b", "c"}})
	if len(iss) != 1 || iss[0].Rule != konf.RuleMaxItems {
		t.Fatalf("expected maxItems violation, got %v", iss)
	}
}

func TestValidator_MultipleOfAndPattern(t *testing.T) {
	v := mustValidator(t, map[string]any{"multipleOf": 2.5})
	if iss := validateAll(t, v, 7.5); len(iss) != 0 {
		t.Fatalf("7.5 is a multiple of 2.5, got %v", iss)
	}
	if iss := validateAll(t, v, 7); len(iss) != 1 || iss[0].Rule != konf.RuleMultipleOf {
		t.Fatalf("expected multipleOf violation, got %v", iss)
	}

	p := mustValidator(t, map[string]any{"pattern": "^v[0-9]+$"})
	if iss := validateAll(t, p, "v12"); len(iss) != 0 {
		t.Fatalf("pattern should match, got %v", iss)
	}
	if iss := validateAll(t, p, "12"); len(iss) != 1 || iss[0].Rule != konf.RulePattern {
		t.Fatalf("expected pattern violation, got %v", iss)
	}
}

func TestValidator_ItemsAndAdditionalItems(t *testing.T) {
	v := mustValidator(t, map[string]any{
		"items": map[string]any{"type": "integer", "minimum": 0},
	})
	iss := validateAll(t, v, []any{1, -2, 3})
	if len(iss) != 1 || !reflect.DeepEqual(iss[0].Path, konf.Path{"1"}) {
		t.Fatalf("expected one issue at index 1, got %v", iss)
	}

	tuple := mustValidator(t, map[string]any{
		"items":           []any{map[string]any{"type": "string"}, map[string]any{"type": "integer"}},
		"additionalItems": false,
	})
	if iss := validateAll(t, tuple, []any{"a", 1}); len(iss) != 0 {
		t.Fatalf("tuple should validate, got %v", iss)
	}
	iss = validateAll(t, tuple, []any{"a", 1, "extra"})
	if len(iss) != 1 || iss[0].Rule != konf.RuleAdditionalItems {
		t.Fatalf("expected additionalItems violation, got %v", iss)
	}
}

func TestValidator_Dependencies(t *testing.T) {
	v := mustValidator(t, map[string]any{
		"dependencies": map[string]any{
			"credit": []any{"billing"},
		},
	})
	iss := validateAll(t, v, map[string]any{"credit": "x"})
	if len(iss) != 1 || iss[0].Rule != konf.RuleDependencies || !reflect.DeepEqual(iss[0].Path, konf.Path{"billing"}) {
		t.Fatalf("expected dependencies issue at [billing], got %v", iss)
	}
	if iss := validateAll(t, v, map[string]any{"credit": "x", "billing": "y"}); len(iss) != 0 {
		t.Fatalf("expected valid, got %v", iss)
	}
}

func TestValidator_RecursiveKeywordDispatch(t *testing.T) {
	// properties, items and dependencies all re-enter the walk; exercise the
	// three together through one schema.
	v := mustValidator(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rows": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"dependencies": map[string]any{
			"rows": map[string]any{
				"properties": map[string]any{
					"limit": map[string]any{"type": "integer", "required": true},
				},
			},
		},
	})

	if iss := validateAll(t, v, map[string]any{"rows": []any{1, 2}, "limit": 10}); len(iss) != 0 {
		t.Fatalf("expected valid, got %v", iss)
	}

	iss := validateAll(t, v, map[string]any{"rows": []any{1, "two"}})
	if len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", iss)
	}
	if iss[0].Rule != konf.RuleRequired || !reflect.DeepEqual(iss[0].Path, konf.Path{"limit"}) {
		t.Fatalf("expected required issue at [limit], got %+v", iss[0])
	}
	if iss[1].Rule != konf.RuleType || !reflect.DeepEqual(iss[1].Path, konf.Path{"rows", "1"}) {
		t.Fatalf("expected type issue at [rows 1], got %+v", iss[1])
	}
}

func TestValidator_NestedPathAccumulation(t *testing.T) {
	v := mustValidator(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"f": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"x": map[string]any{"type": "integer", "maximum": 10},
				},
			},
		},
	})
	iss := validateAll(t, v, map[string]any{"f": map[string]any{"x": 11}})
	if len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", iss)
	}
	if !reflect.DeepEqual(iss[0].Path, konf.Path{"f", "x"}) {
		t.Fatalf("expected full path [f x], got %v", iss[0].Path)
	}
	if iss[0].Rule != konf.RuleMaximum {
		t.Fatalf("expected maximum rule, got %q", iss[0].Rule)
	}
}

func TestValidator_FailFastStopsAtFirstIssue(t *testing.T) {
	v := mustValidator(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "integer", "required": true},
			"b": map[string]any{"type": "integer", "required": true},
		},
	})
	err := v.ValidateInstance(map[string]any{})
	iss, ok := konf.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected a single-issue error, got %v", err)
	}
}

func TestValidator_UnknownKeywordWarnsOnly(t *testing.T) {
	diag := konf.NewDiag()
	v := mustValidator(t, map[string]any{
		"type":        "string",
		"x-made-up":   true,
		"description": "annotations never warn",
	}, konf.ValidateOpt{Diag: diag, SkipSchemaCheck: true})
	if iss := validateAll(t, v, "ok"); len(iss) != 0 {
		t.Fatalf("unknown keyword must not fail validation, got %v", iss)
	}
	if !diag.HasWarnings() {
		t.Fatalf("expected a warning for the unknown keyword")
	}
	if n := len(diag.Warnings()); n != 1 {
		t.Fatalf("expected exactly one warning, got %v", diag.Warnings())
	}
}

func TestValidator_UnknownTypeName(t *testing.T) {
	v := mustValidator(t, map[string]any{"type": "frobnicator"}, konf.ValidateOpt{SkipSchemaCheck: true})
	_, err := v.Validate("x")
	var ute *konf.UnknownTypeError
	if !errors.As(err, &ute) || ute.Name != "frobnicator" {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
}

func TestValidator_CustomTypeRegistry(t *testing.T) {
	v := mustValidator(t, map[string]any{"type": "even"}, konf.ValidateOpt{
		SkipSchemaCheck: true,
		Types: map[string]konf.TypeChecker{
			"even": func(x any) bool {
				n, ok := x.(int)
				return ok && n%2 == 0
			},
		},
	})
	if iss := validateAll(t, v, 4); len(iss) != 0 {
		t.Fatalf("4 is even, got %v", iss)
	}
	if iss := validateAll(t, v, 3); len(iss) != 1 || iss[0].Rule != konf.RuleType {
		t.Fatalf("expected type violation, got %v", iss)
	}
}

func TestCheckSchema_AcceptsWellFormed(t *testing.T) {
	err := konf.CheckSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"n": map[string]any{"type": "integer", "maximum": 5},
		},
	})
	if err != nil {
		t.Fatalf("well-formed schema rejected: %v", err)
	}
}

func TestCheckSchema_RejectsMalformed(t *testing.T) {
	// maximum must be a number per the meta-schema.
	err := konf.CheckSchema(map[string]any{"maximum": "big"})
	se, ok := konf.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(se.Path, konf.Path{"maximum"}) {
		t.Fatalf("expected path [maximum], got %v", se.Path)
	}

	// exclusiveMaximum depends on maximum being present.
	if _, ok := konf.AsSchemaError(konf.CheckSchema(map[string]any{"exclusiveMaximum": true})); !ok {
		t.Fatalf("expected dependency violation for exclusiveMaximum without maximum")
	}
}

func TestNewValidator_ChecksSchemaByDefault(t *testing.T) {
	_, err := konf.NewValidator(konf.Value(map[string]any{"uniqueItems": "yes"}))
	if _, ok := konf.AsSchemaError(err); !ok {
		t.Fatalf("expected *SchemaError from construction, got %v", err)
	}
}
