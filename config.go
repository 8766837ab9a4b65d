package konf

import "fmt"

// Config is the configuration store façade: documents are loaded and
// validated against a schema, schema defaults are layered underneath, and the
// merged tree is addressed through paths.
//
// A Config is owned by a single logical task: configuration is loaded once at
// startup and treated as read-mostly afterwards. The store provides no
// internal synchronization; concurrent readers must treat it as immutable
// after the initial Load and must not interleave Set calls with reads.
type Config struct {
	store *PathStore
	diag  Diag
}

// New returns an empty configuration store.
func New() *Config {
	return &Config{store: NewPathStore(), diag: NewDiag()}
}

// Load reads a document and its schema, validates the document, and merges it
// into the store on top of the schema's defaults.
//
// The sequence is: meta-validate the schema (a *SchemaError is fatal),
// validate the document fail-fast (the first violation is returned as
// Issues), extract the schema's default tree, then merge. Defaults are
// inserted with overwrite=false and document values with overwrite=true, so
// defaults can never clobber an explicit value from this document or from an
// earlier Load. Repeated loads against the same schema layer: later explicit
// values win, defaults only ever fill gaps.
func (c *Config) Load(document, schema Source, opts ...LoadOpt) error {
	var opt LoadOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	diag := opt.Diag
	if diag == nil {
		diag = c.diag
	}

	rawSchema, err := schema.Document(LoadOpt{})
	if err != nil {
		return err
	}
	schemaDoc, ok := rawSchema.(map[string]any)
	if !ok {
		return &SchemaError{Message: fmt.Sprintf("schema must be an object, got %T", rawSchema)}
	}

	rawDoc, err := document.Document(opt)
	if err != nil {
		return err
	}
	doc, ok := rawDoc.(map[string]any)
	if !ok {
		return Issues{{Rule: RuleType, Message: fmt.Sprintf("configuration document must be an object, got %T", rawDoc)}}
	}

	v, err := NewValidator(Value(schemaDoc), ValidateOpt{
		SkipSchemaCheck: opt.SkipSchemaCheck,
		Diag:            diag,
	})
	if err != nil {
		return err
	}
	if err := v.ValidateInstance(doc); err != nil {
		return err
	}

	defaults, found, err := Defaults(schemaDoc)
	if err != nil {
		return err
	}
	if found {
		if m, ok := defaults.(map[string]any); ok {
			c.merge(m, nil, false)
		}
	}
	c.merge(doc, nil, true)
	return nil
}

// merge walks tree and writes its leaves into the store. A mapping node is
// ensured to exist without disturbing mappings already present, so a document
// value of {} never clobbers defaults already filled in beneath that path.
// When the stored value at a mapping node is not itself a mapping, the
// overwrite flag decides whether it is displaced: a document's explicit {}
// replaces a scalar default, a default never replaces anything explicit.
func (c *Config) merge(tree map[string]any, prefix Path, overwrite bool) {
	for key, val := range tree {
		p := prefix.Child(key)
		if m, ok := val.(map[string]any); ok {
			cur, exists := c.store.Get(p)
			if !exists {
				c.store.Set(p, map[string]any{}, false)
			} else if _, isMap := cur.(map[string]any); !isMap && overwrite {
				c.store.Set(p, map[string]any{}, true)
			}
			c.merge(m, p, overwrite)
			continue
		}
		c.store.Set(p, val, overwrite)
	}
}

// Get resolves path in the merged tree. Missing configuration is a normal,
// cheap-to-check outcome: found is false and the returned value names the
// first path segment that could not be resolved.
func (c *Config) Get(path Path) (any, bool) { return c.store.Get(path) }

// Set writes value at path. See PathStore.Set for the overwrite contract.
func (c *Config) Set(path Path, value any, overwrite bool) {
	c.store.Set(path, value, overwrite)
}

// Paths enumerates every leaf of the merged tree in deterministic order.
func (c *Config) Paths() []PathValue { return c.store.Paths() }

// Diag exposes warnings collected while loading, such as schema keywords the
// validator has no rule for.
func (c *Config) Diag() Diag { return c.diag }
