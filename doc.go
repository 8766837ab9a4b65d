// Package konf provides:
//
// - A schema-aware configuration store with layered default resolution (Config.Load)
// - Path-addressed access and mutation over nested JSON-shaped trees (Get/Set)
// - Default-tree extraction from JSON Schema documents, including local $ref expansion
// - A small recursive-descent JSON Schema (draft-4-like) validator with a stable
//   error model via Issues (key path, rule, message)
//
// Design policy:
// - Keep the whole engine in the root package; the CLI lives under cmd/konf.
// - Schema documents are read-only inputs: extraction and validation never mutate them.
// - Missing configuration is a normal outcome, reported as (value, found) pairs,
//   never as an error.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	cfg := konf.New()
//	if err := cfg.Load(konf.JSONFile("config.json"), konf.JSONFile("schema.json")); err != nil {
//		// *SchemaError: the schema itself is broken; Issues: the document is invalid.
//	}
//	v, ok := cfg.Get(konf.ParsePath("DataProcessing.Examples.Separator"))
package konf
