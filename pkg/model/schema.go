package model

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// workflowSchema is a minimal JSON Schema for the shape of a GitHub
// Actions workflow file: just enough structure (required top-level keys,
// the `jobs` mapping, the types of a job's fields; a job's `uses` and
// `steps` are not checked against each other) to flag the
// schema-mismatch cases spec.md calls out as Informational rather than
// fatal — unknown top-level keys and grossly wrong-typed fields. It is
// deliberately looser than GitHub's own schema: a full reimplementation
// would duplicate actionlint's, and a syntax error already short-circuits
// before schema validation ever runs.
const workflowSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "run-name": {"type": "string"},
    "on": {},
    "permissions": {},
    "env": {"type": "object"},
    "defaults": {"type": "object"},
    "concurrency": {},
    "jobs": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "runs-on": {},
          "needs": {},
          "if": {"type": "string"},
          "permissions": {},
          "env": {"type": "object"},
          "steps": {"type": "array"},
          "uses": {"type": "string"},
          "with": {"type": "object"},
          "secrets": {}
        }
      }
    }
  },
  "required": ["on", "jobs"],
  "additionalProperties": false
}`

// actionSchema is the analogous minimal schema for a standalone
// action.yml/action.yaml file.
const actionSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"},
    "inputs": {"type": "object"},
    "outputs": {"type": "object"},
    "branding": {"type": "object"},
    "runs": {
      "type": "object",
      "properties": {
        "using": {"type": "string"}
      },
      "required": ["using"]
    }
  },
  "required": ["runs"],
  "additionalProperties": false
}`

var (
	workflowSchemaOnce     sync.Once
	compiledWorkflowSchema *jsonschema.Schema
	workflowSchemaErr      error

	actionSchemaOnce     sync.Once
	compiledActionSchema *jsonschema.Schema
	actionSchemaErr      error
)

func getCompiledWorkflowSchema() (*jsonschema.Schema, error) {
	workflowSchemaOnce.Do(func() {
		compiledWorkflowSchema, workflowSchemaErr = compileSchema(workflowSchema, "https://gh-audit.invalid/workflow-schema.json")
	})
	return compiledWorkflowSchema, workflowSchemaErr
}

func getCompiledActionSchema() (*jsonschema.Schema, error) {
	actionSchemaOnce.Do(func() {
		compiledActionSchema, actionSchemaErr = compileSchema(actionSchema, "https://gh-audit.invalid/action-schema.json")
	})
	return compiledActionSchema, actionSchemaErr
}

func compileSchema(schemaJSON, schemaURL string) (*jsonschema.Schema, error) {
	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// SchemaMismatch validates a raw decoded YAML document (map[string]any, as
// produced by a plain yaml.Unmarshal into `any`) against the workflow or
// action shape and reports the jsonschema validation error, if any. It is
// a non-fatal, Informational signal distinct from a YAML syntax error:
// a document can fail this check and still be fully walkable by the rest
// of the model.
func SchemaMismatch(raw any, isAction bool) error {
	schema, err := schemaFor(isAction)
	if err != nil {
		return fmt.Errorf("schema compile: %w", err)
	}

	// Round-trip through JSON to normalize map[any]any / map[string]any and
	// numeric types the way jsonschema/v6 expects them.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}

	return schema.Validate(normalized)
}

// DecodeRawYAML unmarshals source with yaml.v3 into a plain any, the form
// SchemaMismatch expects. It is independent of cst.Load: a syntax error
// here is redundant with (and always implied by) one already surfaced
// through cst.Load, so callers only need this when they already know
// source parses.
func DecodeRawYAML(source []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(source, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func schemaFor(isAction bool) (*jsonschema.Schema, error) {
	if isAction {
		return getCompiledActionSchema()
	}
	return getCompiledWorkflowSchema()
}
