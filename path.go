package konf

import (
	"strconv"
	"strings"
)

// Path is an ordered sequence of keys locating a value inside a nested
// JSON-shaped tree. Paths are the only addressing mechanism the store
// exposes; callers never traverse the tree directly.
type Path []string

// NewPath builds a Path from individual keys.
func NewPath(keys ...string) Path { return Path(keys) }

// ParsePath splits a dotted path string ("a.b.c") into a Path.
// An empty string yields the root path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

// Child returns a new Path with key appended. The receiver is not modified.
func (p Path) Child(key string) Path {
	return append(append(Path{}, p...), key)
}

// Index returns a new Path with the array index appended as a key.
func (p Path) Index(i int) Path {
	return p.Child(strconv.Itoa(i))
}

// String renders the path in dotted form.
func (p Path) String() string { return strings.Join(p, ".") }

// Pointer renders the path as a JSON Pointer, escaping '~' -> '~0' and
// '/' -> '~1' per RFC 6901.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(seg))
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// prepend returns a new Path with key in front. Used when bubbling issues up
// through recursive validation so the full path is assembled from root to leaf.
func (p Path) prepend(key string) Path {
	return append(Path{key}, p...)
}
