package konf

import "strings"

// Resolve follows a local reference of the form "#/a/b/c" through the root
// schema document: the leading '#' is dropped and the remaining segments are
// walked as keys from the root. References may point anywhere in the
// document, conventionally into "definitions". A segment that cannot be
// resolved is a *SchemaError, never a silent empty result.
func Resolve(root map[string]any, ref string) (map[string]any, error) {
	segs := strings.Split(ref, "/")
	if len(segs) == 0 || segs[0] != "#" {
		return nil, &SchemaError{Message: "unsupported $ref " + quote(ref) + " (local #/... references only)", Rule: "$ref"}
	}
	cur := any(root)
	for i, seg := range segs[1:] {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, refError(ref, segs[1:i+1])
		}
		next, ok := m[seg]
		if !ok {
			return nil, refError(ref, segs[1:i+2])
		}
		cur = next
	}
	target, ok := cur.(map[string]any)
	if !ok {
		return nil, &SchemaError{Message: "$ref " + quote(ref) + " does not point at a schema node", Path: Path(segs[1:]), Rule: "$ref"}
	}
	return target, nil
}

func refError(ref string, walked []string) *SchemaError {
	return &SchemaError{
		Message: "unresolvable $ref " + quote(ref),
		Path:    Path(walked),
		Rule:    "$ref",
	}
}

func quote(s string) string { return `"` + s + `"` }

// expandRef replaces node with its referenced target when it carries a $ref.
// Per the reference rules of this engine the whole node is substituted: any
// sibling keys next to "$ref" are ignored. visited tracks reference targets
// active in the current walk; revisiting one is a cycle and fails with a
// *SchemaError instead of recursing until the stack runs out. The returned
// release func unmarks the reference once the caller is done recursing into
// the target; it is a no-op when no reference was followed.
//
// The input node is never modified; resolution grafts nothing back into the
// schema document.
func expandRef(root, node map[string]any, visited map[string]bool) (map[string]any, func(), error) {
	ref, ok := node["$ref"].(string)
	if !ok {
		return node, func() {}, nil
	}
	if visited[ref] {
		return nil, nil, &SchemaError{Message: "cyclic $ref " + quote(ref), Rule: "$ref"}
	}
	target, err := Resolve(root, ref)
	if err != nil {
		return nil, nil, err
	}
	visited[ref] = true
	return target, func() { delete(visited, ref) }, nil
}
