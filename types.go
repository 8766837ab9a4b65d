package konf

import "fmt"

// Diag carries non-fatal warnings produced while walking a schema, such as
// keywords the validator has no rule for. It is passed explicitly instead of
// going through a process-wide logger.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

// NewDiag returns a warning collector suitable for LoadOpt.Diag and
// ValidateOpt.Diag.
func NewDiag() Diag { return &simpleDiag{} }

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// warnTo appends to any Diag created by NewDiag; other implementations are
// read-only observers and the warning is dropped.
func warnTo(d Diag, f string, a ...any) {
	if sd, ok := d.(*simpleDiag); ok {
		sd.warnf(f, a...)
	}
}

// LoadOpt bundles options for Config.Load and the Source constructors.
type LoadOpt struct {
	// Encoding optionally names an IANA character set the document file is
	// stored in; its content is transcoded to UTF-8 before decoding. Applies
	// to the document only, never the schema.
	Encoding string
	// SkipSchemaCheck disables meta-schema validation of the schema document.
	// The schema must have been validated elsewhere; extraction and
	// validation assume a well-formed document.
	SkipSchemaCheck bool
	// Diag receives validator warnings. Nil means warnings accumulate on the
	// Config's own Diag.
	Diag Diag
}

// ValidateOpt bundles options for NewValidator.
type ValidateOpt struct {
	// Types augments or overrides the default type registry. For example,
	// {"number": checker} replaces what counts as a JSON number.
	Types map[string]TypeChecker
	// SkipSchemaCheck disables validating the schema against the meta-schema.
	SkipSchemaCheck bool
	// Diag receives warnings for unrecognized keywords. Nil means warnings
	// are collected internally and exposed via Validator.Diag.
	Diag Diag
}
