package konf

// Kind classifies a schema node by its declared type. It is determined once
// per node and drives both default extraction and validation dispatch, so the
// recursive walks never re-examine the raw "type" value.
type Kind int

const (
	KindUnknown Kind = iota
	KindObject
	KindArray
	KindPrimitive // boolean, integer, number, string
	KindNull
)

// kindOf classifies node. A node with no "type" key is an object only at the
// true top level: the implicit root wrapper carries no explicit type, while
// anywhere deeper a missing or unrecognized type yields KindUnknown.
func kindOf(node map[string]any, topLevel bool) (Kind, string) {
	name, ok := node["type"].(string)
	if !ok {
		if topLevel {
			return KindObject, "object"
		}
		return KindUnknown, ""
	}
	switch name {
	case "object":
		return KindObject, name
	case "array":
		return KindArray, name
	case "boolean", "integer", "number", "string":
		return KindPrimitive, name
	case "null":
		return KindNull, name
	default:
		return KindUnknown, name
	}
}

// schemaProperties returns the declared properties of node, or nil.
func schemaProperties(node map[string]any) map[string]any {
	m, _ := node["properties"].(map[string]any)
	return m
}
