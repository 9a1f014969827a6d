package exchange

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/mdmreg/pkg/schema"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// SchemaExport is the document written by ExportSchemas.
type SchemaExport struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	Schemas     *schema.Set `json:"schemas"`
}

// ExportSchemas derives every entity's schema and renders the combined,
// pretty-printed schema export.
func ExportSchemas(entities []types.Entity, generatedAt time.Time) ([]byte, error) {
	out := SchemaExport{
		GeneratedAt: generatedAt.UTC(),
		Schemas:     schema.DeriveAll(entities),
	}
	return json.MarshalIndent(out, "", "  ")
}

// EntityFiles renders the two per-entity artifacts for the schema stored
// under key: the schema JSON and its TypeScript declarations.
func EntityFiles(set *schema.Set, key string) (schemaJSON, dts []byte, err error) {
	doc, ok := set.Get(key)
	if !ok {
		return nil, nil, fmt.Errorf("%q: %w", key, types.ErrSchemaNotFound)
	}
	schemaJSON, err = json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal schema %q: %w", key, err)
	}
	dts = []byte(schema.TypeScript(doc, schema.TypeName(doc, key)))
	return schemaJSON, dts, nil
}

// SchemaFileName and TypesFileName return the per-entity file names for key.
func SchemaFileName(key string) string { return key + ".schema.json" }

// TypesFileName returns the TypeScript declaration file name for key.
func TypesFileName(key string) string { return key + ".d.ts" }
