package konf

import (
	"bytes"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Source supplies a JSON-shaped document tree to Config.Load and NewValidator.
// A Source may read a local file, decode raw bytes, or hand over an already
// parsed in-memory value.
type Source interface {
	// Document materializes the tree. Numbers decode as json.Number so no
	// precision is lost before validation.
	Document(opt LoadOpt) (any, error)
}

// JSONFile reads a JSON document from a file path.
func JSONFile(path string) Source { return fileSource{path: path} }

// JSONBytes decodes a JSON document from raw bytes.
func JSONBytes(b []byte) Source { return bytesSource{data: b} }

// Value hands over an already parsed in-memory document. The value is used
// as-is; the engine never mutates it.
func Value(v any) Source { return valueSource{v: v} }

type fileSource struct{ path string }

func (s fileSource) Document(opt LoadOpt) (any, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("konf: reading %s: %w", s.path, err)
	}
	v, err := decodeJSON(b, opt)
	if err != nil {
		return nil, fmt.Errorf("konf: %s: %w", s.path, err)
	}
	return v, nil
}

type bytesSource struct{ data []byte }

func (s bytesSource) Document(opt LoadOpt) (any, error) {
	return decodeJSON(s.data, opt)
}

type valueSource struct{ v any }

func (s valueSource) Document(LoadOpt) (any, error) { return s.v, nil }

func decodeJSON(b []byte, opt LoadOpt) (any, error) {
	b, err := transcode(b, opt.Encoding)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

// transcode converts b from the named IANA character set to UTF-8. An empty
// name is a no-op; an unrecognized name is an error rather than a silent
// identity transform.
func transcode(b []byte, name string) ([]byte, error) {
	if name == "" {
		return b, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("konf: unknown encoding %q", name)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return nil, fmt.Errorf("konf: transcoding from %s: %w", name, err)
	}
	return out, nil
}
