package konf

// Defaults walks a schema document and produces the nested default-value tree
// derivable from it, independent of any particular instance.
//
// Base defaults when the schema declares none of its own: an array defaults
// to an empty sequence, an object to an empty mapping, and null to nil; all
// three always report found. The primitive types (boolean, integer, number,
// string) get no invented default: they report found only when the schema
// carries an explicit "default" key, so legitimate falsy defaults like false,
// 0 and "" are preserved and distinguishable from "no default". An
// unrecognized type reports not found.
//
// Properties are recursed into with $ref indirection resolved first, and a
// property's own sub-schema default overrides any same-named entry in the
// parent's "default" mapping. The schema is treated as read-only: extraction
// never mutates it, and running it twice yields identical trees.
//
// The returned error is structural only: an unresolvable or cyclic $ref
// surfaces as a *SchemaError.
func Defaults(schema map[string]any) (any, bool, error) {
	e := extractor{root: schema, visited: map[string]bool{}}
	return e.extract(schema, true)
}

type extractor struct {
	root    map[string]any
	visited map[string]bool
}

func (e *extractor) extract(node map[string]any, topLevel bool) (any, bool, error) {
	kind, _ := kindOf(node, topLevel)
	switch kind {
	case KindArray:
		if d, ok := node["default"]; ok {
			return deepCopyValue(d), true, nil
		}
		return []any{}, true, nil
	case KindObject:
		return e.extractObject(node)
	case KindPrimitive:
		d, ok := node["default"]
		if !ok {
			return nil, false, nil
		}
		return deepCopyValue(d), true, nil
	case KindNull:
		return nil, true, nil
	default:
		return nil, false, nil
	}
}

func (e *extractor) extractObject(node map[string]any) (any, bool, error) {
	// The node's own default seeds the mapping; property-level defaults are
	// layered on top afterwards, so sub-schema defaults win over same-named
	// entries declared up here.
	out := map[string]any{}
	if d, ok := node["default"].(map[string]any); ok {
		out = deepCopyValue(d).(map[string]any)
	}
	for name, raw := range schemaProperties(node) {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		sub, release, err := e.expandRef(prop)
		if err != nil {
			return nil, false, err
		}
		val, found, err := e.extract(sub, false)
		release()
		if err != nil {
			return nil, false, err
		}
		if found {
			out[name] = val
		}
	}
	return out, true, nil
}

func (e *extractor) expandRef(node map[string]any) (map[string]any, func(), error) {
	return expandRef(e.root, node, e.visited)
}
