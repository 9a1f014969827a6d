package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/mdmreg/internal/registry"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// Default file names for exports.
const (
	RegistryFileName = "mdm-registry.json"
	SchemasFileName  = "mdm-json-schemas.json"
)

// RegistryExport is the document written by ExportRegistry.
type RegistryExport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Entities    []types.Entity `json:"entities"`
}

// ImportErrorKind says why an import was rejected.
type ImportErrorKind string

// Import rejection kinds.
const (
	KindMalformedJSON   ImportErrorKind = "malformed_json"
	KindMissingEntities ImportErrorKind = "missing_entities"
	KindInvalidEntities ImportErrorKind = "invalid_entities"
)

// Sentinel causes wrapped by ImportError.
var (
	ErrMalformedJSON   = errors.New("registry file is not valid JSON")
	ErrMissingEntities = errors.New("registry file has no entities array")
	ErrInvalidEntities = errors.New("registry entities do not match the entity shape")
)

// ImportError reports a rejected import. The store is never modified when
// an ImportError is returned.
type ImportError struct {
	Kind ImportErrorKind
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import rejected (%s): %v", e.Kind, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ExportRegistry renders entities as a pretty-printed registry export.
func ExportRegistry(entities []types.Entity, generatedAt time.Time) ([]byte, error) {
	out := RegistryExport{
		GeneratedAt: generatedAt.UTC(),
		Entities:    make([]types.Entity, len(entities)),
	}
	for i, e := range entities {
		e = e.Clone()
		e.Normalize()
		out.Entities[i] = e
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseRegistry decodes a registry export. The text is accepted only when its
// top-level "entities" member is an array. Missing fields, relationships and
// change logs default to empty, and a missing createdAt defaults to now.
// Identifiers and all other values are taken as they are.
func ParseRegistry(data []byte, now time.Time) ([]types.Entity, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || !json.Valid(data) {
			return nil, &ImportError{Kind: KindMalformedJSON, Err: fmt.Errorf("%w: %v", ErrMalformedJSON, err)}
		}
		// Valid JSON that is not an object.
		return nil, &ImportError{Kind: KindMissingEntities, Err: ErrMissingEntities}
	}

	raw, ok := top["entities"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, &ImportError{Kind: KindMissingEntities, Err: ErrMissingEntities}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ImportError{Kind: KindInvalidEntities, Err: fmt.Errorf("%w: %v", ErrInvalidEntities, err)}
	}
	entities := make([]types.Entity, 0, len(items))
	for i, item := range items {
		e, err := parseEntity(item)
		if err != nil {
			return nil, &ImportError{Kind: KindInvalidEntities, Err: fmt.Errorf("%w: entity %d: %v", ErrInvalidEntities, i, err)}
		}
		e.Normalize()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now.UTC()
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// parseEntity decodes one imported entity. An empty or null createdAt is
// treated as missing.
func parseEntity(item json.RawMessage) (types.Entity, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(item, &members); err != nil {
		return types.Entity{}, err
	}
	if ts, ok := members["createdAt"]; ok {
		switch string(bytes.TrimSpace(ts)) {
		case `""`, "null":
			delete(members, "createdAt")
			cleaned, err := json.Marshal(members)
			if err != nil {
				return types.Entity{}, err
			}
			item = cleaned
		}
	}
	var e types.Entity
	if err := json.Unmarshal(item, &e); err != nil {
		return types.Entity{}, err
	}
	return e, nil
}

// Import parses data and, on success, replaces the store's entities with the
// imported ones. On failure the store is left exactly as it was.
func Import(store *registry.Store, data []byte, now time.Time) (int, error) {
	entities, err := ParseRegistry(data, now)
	if err != nil {
		return 0, err
	}
	store.Replace(entities)
	return len(entities), nil
}
