package claudecli

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFor derives a JSON schema string from a Go struct, suitable for
// WithJSONSchema. The schema is inlined (no $ref/$defs indirection) because
// the CLI's constrained decoder expects a self-contained object schema.
func SchemaFor(v any) (string, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(v)
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(data), nil
}
