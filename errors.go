package konf

import (
	"errors"
	"fmt"
	"strings"
)

// Rule names (exported consts for IDE completion and type safety by convention).
// Each names the schema keyword whose check produced an Issue.
const (
	RuleType            = "type"
	RuleRequired        = "required"
	RuleMinimum         = "minimum"
	RuleMaximum         = "maximum"
	RuleMinLength       = "minLength"
	RuleMaxLength       = "maxLength"
	RuleMinItems        = "minItems"
	RuleMaxItems        = "maxItems"
	RuleMultipleOf      = "multipleOf"
	RulePattern         = "pattern"
	RuleUniqueItems     = "uniqueItems"
	RuleAdditionalItems = "additionalItems"
	RuleDependencies    = "dependencies"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    Path   // Keys from the document root to the offending value.
	Rule    string // Schema keyword that failed, e.g. "required".
	Message string
	// Params carries structured parameters (e.g., {"maximum":5, "got":7})
	// for observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /f/x
		fmt.Fprintf(b, "%s at %s", it.Rule, it.Path.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// SchemaError reports a malformed schema document: it fails validation against
// the meta-schema, or it contains an unresolvable or cyclic $ref. Callers
// should abort configuration loading entirely; there is no safe partial state.
type SchemaError struct {
	Message string
	Path    Path   // Keys from the schema root to the offending node.
	Rule    string // Meta-schema keyword or "$ref" for reference failures.
}

func (e *SchemaError) Error() string {
	if len(e.Path) == 0 {
		return "konf: invalid schema: " + e.Message
	}
	return fmt.Sprintf("konf: invalid schema at %s: %s", e.Path.Pointer(), e.Message)
}

// AsSchemaError extracts a *SchemaError from an error chain.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// UnknownTypeError indicates a schema named a type that is not registered with
// the validator. This is a schema-authoring mistake, not a runtime condition
// to recover from.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("konf: unknown type %q in schema", e.Name)
}
