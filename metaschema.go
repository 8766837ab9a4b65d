package konf

import (
	"bytes"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
)

// CheckSchema validates a schema document against the embedded draft-4
// meta-schema, using the same validation engine recursively. The first
// violation is returned as a *SchemaError carrying the path and the failing
// meta-schema rule.
func CheckSchema(schema map[string]any) error {
	meta, err := metaValidator()
	if err != nil {
		return err
	}
	var first *Issue
	if err := meta.Each(schema, func(i Issue) bool {
		first = &i
		return false
	}); err != nil {
		return err
	}
	if first != nil {
		return &SchemaError{Message: first.Message, Path: first.Path, Rule: first.Rule}
	}
	return nil
}

var (
	metaOnce sync.Once
	metaVal  *Validator
	metaErr  error
)

// metaValidator builds the meta-schema validator once. The meta-schema is
// not checked against itself, and its warnings (anyOf, enum and friends have
// no rule here) are discarded.
func metaValidator() (*Validator, error) {
	metaOnce.Do(func() {
		dec := json.NewDecoder(bytes.NewReader([]byte(metaSchemaJSON)))
		dec.UseNumber()
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			metaErr = fmt.Errorf("konf: decoding embedded meta-schema: %w", err)
			return
		}
		metaVal, metaErr = NewValidator(Value(doc), ValidateOpt{SkipSchemaCheck: true})
	})
	return metaVal, metaErr
}

// metaSchemaJSON is the JSON Schema draft-4 core meta-schema.
const metaSchemaJSON = `{
    "id": "http://json-schema.org/draft-04/schema#",
    "$schema": "http://json-schema.org/draft-04/schema#",
    "description": "Core schema meta-schema",
    "definitions": {
        "schemaArray": {
            "type": "array",
            "minItems": 1,
            "items": {"$ref": "#"}
        },
        "positiveInteger": {
            "type": "integer",
            "minimum": 0
        },
        "positiveIntegerDefault0": {
            "allOf": [{"$ref": "#/definitions/positiveInteger"}, {"default": 0}]
        },
        "simpleTypes": {
            "enum": ["array", "boolean", "integer", "null", "number", "object", "string"]
        },
        "stringArray": {
            "type": "array",
            "items": {"type": "string"},
            "minItems": 1,
            "uniqueItems": true
        }
    },
    "type": "object",
    "properties": {
        "id": {"type": "string", "format": "uri"},
        "$schema": {"type": "string", "format": "uri"},
        "title": {"type": "string"},
        "description": {"type": "string"},
        "default": {},
        "multipleOf": {
            "type": "number",
            "minimum": 0,
            "exclusiveMinimum": true
        },
        "maximum": {"type": "number"},
        "exclusiveMaximum": {"type": "boolean", "default": false},
        "minimum": {"type": "number"},
        "exclusiveMinimum": {"type": "boolean", "default": false},
        "maxLength": {"$ref": "#/definitions/positiveInteger"},
        "minLength": {"$ref": "#/definitions/positiveIntegerDefault0"},
        "pattern": {"type": "string", "format": "regex"},
        "additionalItems": {
            "anyOf": [{"type": "boolean"}, {"$ref": "#"}],
            "default": {}
        },
        "items": {
            "anyOf": [{"$ref": "#"}, {"$ref": "#/definitions/schemaArray"}],
            "default": {}
        },
        "maxItems": {"$ref": "#/definitions/positiveInteger"},
        "minItems": {"$ref": "#/definitions/positiveIntegerDefault0"},
        "uniqueItems": {"type": "boolean", "default": false},
        "maxProperties": {"$ref": "#/definitions/positiveInteger"},
        "minProperties": {"$ref": "#/definitions/positiveIntegerDefault0"},
        "required": {"$ref": "#/definitions/stringArray"},
        "additionalProperties": {
            "anyOf": [{"type": "boolean"}, {"$ref": "#"}],
            "default": {}
        },
        "definitions": {
            "type": "object",
            "additionalProperties": {"$ref": "#"},
            "default": {}
        },
        "properties": {
            "type": "object",
            "additionalProperties": {"$ref": "#"},
            "default": {}
        },
        "patternProperties": {
            "type": "object",
            "additionalProperties": {"$ref": "#"},
            "default": {}
        },
        "dependencies": {
            "type": "object",
            "additionalProperties": {
                "anyOf": [{"$ref": "#"}, {"$ref": "#/definitions/stringArray"}]
            }
        },
        "enum": {
            "type": "array",
            "minItems": 1,
            "uniqueItems": true
        },
        "type": {
            "anyOf": [
                {"$ref": "#/definitions/simpleTypes"},
                {
                    "type": "array",
                    "items": {"$ref": "#/definitions/simpleTypes"},
                    "minItems": 1,
                    "uniqueItems": true
                }
            ]
        },
        "allOf": {"$ref": "#/definitions/schemaArray"},
        "anyOf": {"$ref": "#/definitions/schemaArray"},
        "oneOf": {"$ref": "#/definitions/schemaArray"},
        "not": {"$ref": "#"}
    },
    "dependencies": {
        "exclusiveMaximum": ["maximum"],
        "exclusiveMinimum": ["minimum"]
    },
    "default": {}
}`
