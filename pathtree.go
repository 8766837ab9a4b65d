package konf

import "sort"

// PathStore is a mapping from paths to arbitrary JSON-shaped values. Reads are
// existence-checked and return copies; writes create intermediate mapping
// nodes as needed. The store owns its tree exclusively: values passed in and
// handed out are deep-copied so callers can never alias internal state.
//
// A PathStore is not safe for concurrent mutation; it is meant to be owned by
// a single logical task, loaded once, and read-mostly afterwards.
type PathStore struct {
	root map[string]any
}

// NewPathStore returns an empty store.
func NewPathStore() *PathStore {
	return &PathStore{root: map[string]any{}}
}

// Get resolves path and returns a copy of the value stored there. It never
// fails for a missing path: found is false and, as a debugging aid, the
// returned value is the first path segment that could not be resolved.
func (s *PathStore) Get(path Path) (any, bool) {
	cur := any(s.root)
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return seg, false
		}
		next, ok := m[seg]
		if !ok {
			return seg, false
		}
		cur = next
	}
	return deepCopyValue(cur), true
}

// Set stores value at path, creating intermediate mapping nodes along the
// way. When overwrite is false and a value already exists at the exact path,
// the call is a no-op and the existing value wins; this also holds when an
// intermediate segment resolves to a non-mapping value, since replacing it
// would clobber existing state. When overwrite is true the existing value and
// any subtree under it are replaced.
func (s *PathStore) Set(path Path, value any, overwrite bool) {
	if len(path) == 0 {
		return
	}
	cur := s.root
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg]
		if !ok {
			m := map[string]any{}
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			if !overwrite {
				return
			}
			m = map[string]any{}
			cur[seg] = m
		}
		cur = m
	}
	leaf := path[len(path)-1]
	if _, exists := cur[leaf]; exists && !overwrite {
		return
	}
	cur[leaf] = deepCopyValue(value)
}

// PathValue pairs a leaf path with the value stored there.
type PathValue struct {
	Path  Path
	Value any
}

// Paths enumerates every leaf of the tree in deterministic (sorted-key)
// order. A leaf is any non-mapping value, or an empty mapping; non-empty
// mappings are descended into. Returned values are copies.
func (s *PathStore) Paths() []PathValue {
	var out []PathValue
	walkLeaves(s.root, nil, func(p Path, v any) {
		out = append(out, PathValue{Path: p, Value: deepCopyValue(v)})
	})
	return out
}

func walkLeaves(node map[string]any, prefix Path, visit func(Path, any)) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p := prefix.Child(k)
		if m, ok := node[k].(map[string]any); ok && len(m) > 0 {
			walkLeaves(m, p, visit)
			continue
		}
		visit(p, node[k])
	}
}

// deepCopyValue copies maps and slices recursively; scalars are returned as-is.
func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = deepCopyValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = deepCopyValue(t[i])
		}
		return out
	default:
		return v
	}
}
