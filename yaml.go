package konf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLFile reads a YAML document from a file path. The decoded tree is
// normalized to JSON-shaped map[string]any values, so the rest of the engine
// is format-agnostic.
func YAMLFile(path string) Source { return yamlFileSource{path: path} }

// YAMLBytes decodes a YAML document from raw bytes.
func YAMLBytes(b []byte) Source { return yamlBytesSource{data: b} }

type yamlFileSource struct{ path string }

func (s yamlFileSource) Document(opt LoadOpt) (any, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("konf: reading %s: %w", s.path, err)
	}
	v, err := decodeYAML(b, opt)
	if err != nil {
		return nil, fmt.Errorf("konf: %s: %w", s.path, err)
	}
	return v, nil
}

type yamlBytesSource struct{ data []byte }

func (s yamlBytesSource) Document(opt LoadOpt) (any, error) {
	return decodeYAML(s.data, opt)
}

func decodeYAML(b []byte, opt LoadOpt) (any, error) {
	b, err := transcode(b, opt.Encoding)
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return yamlNormalizeValue(v), nil
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-string map keys
// are dropped.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
