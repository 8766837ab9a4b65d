package konf_test

import (
	"reflect"
	"testing"

	konf "github.com/reoring/konf"
)

func mustDefaults(t *testing.T, schema map[string]any) (any, bool) {
	t.Helper()
	v, found, err := konf.Defaults(schema)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	return v, found
}

func TestDefaults_BaseValuesPerType(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"arr": map[string]any{"type": "array"},
			"obj": map[string]any{"type": "object"},
			"nul": map[string]any{"type": "null"},
			"num": map[string]any{"type": "number"},
			"str": map[string]any{"type": "string"},
		},
	}
	v, found := mustDefaults(t, schema)
	if !found {
		t.Fatalf("expected defaults to be found")
	}
	want := map[string]any{
		"arr": []any{},
		"obj": map[string]any{},
		"nul": nil,
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("defaults mismatch:\n got %v\nwant %v", v, want)
	}
}

func TestDefaults_FalsyValuesPreserved(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"b": map[string]any{"type": "boolean", "default": false},
			"i": map[string]any{"type": "integer", "default": 0},
			"s": map[string]any{"type": "string", "default": ""},
		},
	}
	v, found := mustDefaults(t, schema)
	if !found {
		t.Fatalf("expected defaults to be found")
	}
	want := map[string]any{"b": false, "i": 0, "s": ""}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("falsy defaults lost:\n got %v\nwant %v", v, want)
	}
}

func TestDefaults_PrimitiveWithoutDefaultNotFound(t *testing.T) {
	v, found, err := konf.Defaults(map[string]any{"type": "integer"})
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if found {
		t.Fatalf("integer without a default must report not found, got %v", v)
	}
}

func TestDefaults_SubSchemaOverridesParentDefault(t *testing.T) {
	schema := map[string]any{
		"type":    "object",
		"default": map[string]any{"key": 0, "other": "kept"},
		"properties": map[string]any{
			"key": map[string]any{"type": "integer", "default": 1},
		},
	}
	v, _ := mustDefaults(t, schema)
	want := map[string]any{"key": 1, "other": "kept"}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("sub-schema default must win:\n got %v\nwant %v", v, want)
	}
}

func TestDefaults_RefEquivalentToInline(t *testing.T) {
	inner := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q": map[string]any{"type": "string", "default": "s"},
		},
	}
	withRef := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"p": map[string]any{"$ref": "#/definitions/D"},
		},
		"definitions": map[string]any{"D": inner},
	}
	inline := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"p": inner,
		},
	}
	got, _ := mustDefaults(t, withRef)
	want, _ := mustDefaults(t, inline)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("$ref extraction differs from inline:\n got %v\nwant %v", got, want)
	}
}

func TestDefaults_IdempotentAndNonMutating(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"p": map[string]any{"$ref": "#/definitions/D"},
			"x": map[string]any{"type": "integer", "default": 3},
		},
		"definitions": map[string]any{
			"D": map[string]any{"type": "array", "default": []any{1}},
		},
	}
	first, _ := mustDefaults(t, schema)
	second, _ := mustDefaults(t, schema)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-extraction differs:\n first %v\nsecond %v", first, second)
	}
	// The property node must still hold its $ref, not a grafted subtree.
	props := schema["properties"].(map[string]any)
	if _, ok := props["p"].(map[string]any)["$ref"]; !ok {
		t.Fatalf("extraction mutated the schema: %v", props["p"])
	}

	// Mutating the extracted tree must not leak into later extractions.
	first.(map[string]any)["p"].([]any)[0] = 99
	third, _ := mustDefaults(t, schema)
	if !reflect.DeepEqual(second, third) {
		t.Fatalf("extracted tree aliases the schema:\n got %v\nwant %v", third, second)
	}
}

func TestDefaults_CyclicRefFails(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"root": map[string]any{"$ref": "#/definitions/X"},
		},
		"definitions": map[string]any{
			"X": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"self": map[string]any{"$ref": "#/definitions/X"},
				},
			},
		},
	}
	_, _, err := konf.Defaults(schema)
	se, ok := konf.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected *SchemaError for cyclic $ref, got %v", err)
	}
	if se.Rule != "$ref" {
		t.Fatalf("expected $ref rule, got %q", se.Rule)
	}
}

func TestDefaults_UnknownTypeNotFound(t *testing.T) {
	v, found, err := konf.Defaults(map[string]any{"type": "frobnicator"})
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if found {
		t.Fatalf("unknown type must report not found, got %v", v)
	}
}

func TestResolve_WalksIntoDefinitions(t *testing.T) {
	schema := map[string]any{
		"definitions": map[string]any{
			"deep": map[string]any{
				"nested": map[string]any{"type": "string"},
			},
		},
	}
	node, err := konf.Resolve(schema, "#/definitions/deep/nested")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if node["type"] != "string" {
		t.Fatalf("wrong target: %v", node)
	}
}

func TestResolve_MissingSegmentIsSchemaError(t *testing.T) {
	_, err := konf.Resolve(map[string]any{"definitions": map[string]any{}}, "#/definitions/nope")
	se, ok := konf.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if se.Rule != "$ref" || len(se.Path) == 0 {
		t.Fatalf("missing context on error: %+v", se)
	}
}

func TestResolve_RejectsNonLocalRef(t *testing.T) {
	if _, err := konf.Resolve(map[string]any{}, "http://example.com/schema#"); err == nil {
		t.Fatalf("expected error for non-local $ref")
	}
}
