package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fieldsSchema is what a usable model reply looks like: one object whose
// values are scalars. Unknown keys are tolerated and dropped later.
func fieldsSchema() map[string]any {
	props := make(map[string]any, len(FieldKeys))
	for _, key := range FieldKeys {
		props[key] = map[string]any{"type": []string{"string", "null"}}
	}
	// models sometimes answer these with numbers
	props["estimated_damage"] = map[string]any{"type": []string{"number", "string", "null"}}
	props["year"] = map[string]any{"type": []string{"integer", "string", "null"}}

	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
	}
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(fieldsSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fields.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("fields.json")
})

// validateFields checks a raw reply against the field schema
func validateFields(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("reply is not JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("reply does not match field schema: %w", err)
	}
	return nil
}
