package exchange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mdmreg/internal/registry"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

var exportTime = time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

func populatedStore(t *testing.T) *registry.Store {
	t.Helper()
	s := registry.New()
	supplier := s.CreateEntity(types.Draft{Name: "Supplier", Type: "supplier", ExternalIDs: []string{"SAP:LFA1"}})
	product := s.CreateEntity(types.Draft{
		Name:        "Finished Good",
		Type:        "finished-good",
		Status:      types.StatusPublished,
		Description: "Packaged product",
		Fields: []types.Field{
			{ID: "f1", Name: "sku", Type: types.FieldString, Required: true},
			{ID: "f2", Name: "grade", Type: types.FieldEnum, Options: []string{"A", "B"}},
			{ID: "f3", Name: "photos", Type: types.FieldImage, Multi: true},
		},
		Relationships: []types.Relationship{
			{ID: "r1", Name: "suppliedBy", Target: supplier.ID, Cardinality: types.ManyToMany, Required: true},
		},
	})
	_, err := s.SaveVersion(product.ID, "planner", "first cut")
	require.NoError(t, err)
	return s
}

func entitiesOf(t *testing.T, data []byte) json.RawMessage {
	t.Helper()
	var doc struct {
		Entities json.RawMessage `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc.Entities
}

func TestRegistryRoundTrip(t *testing.T) {
	s := populatedStore(t)
	first, err := ExportRegistry(s.Entities(), exportTime)
	require.NoError(t, err)

	other := registry.New()
	n, err := Import(other, first, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	second, err := ExportRegistry(other.Entities(), exportTime.Add(time.Hour))
	require.NoError(t, err)

	assert.JSONEq(t, string(entitiesOf(t, first)), string(entitiesOf(t, second)))
}

func TestExportRegistryShape(t *testing.T) {
	data, err := ExportRegistry([]types.Entity{{ID: "e1", Name: "Bare"}}, exportTime)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "2026-05-02T08:00:00Z", got["generatedAt"])
	entities := got["entities"].([]any)
	require.Len(t, entities, 1)
	e := entities[0].(map[string]any)
	assert.Equal(t, []any{}, e["fields"])
	assert.Equal(t, []any{}, e["relationships"])
	assert.Equal(t, []any{}, e["changeLog"])
	assert.Contains(t, string(data), "\n  \"entities\"", "output is pretty-printed")
}

func TestImportRejectsLeaveStoreUnchanged(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind ImportErrorKind
		err  error
	}{
		{"no entities key", `{"schemas": {}}`, KindMissingEntities, ErrMissingEntities},
		{"entities not an array", `{"entities": {"a": 1}}`, KindMissingEntities, ErrMissingEntities},
		{"entities null", `{"entities": null}`, KindMissingEntities, ErrMissingEntities},
		{"top-level array", `[{"id": "x"}]`, KindMissingEntities, ErrMissingEntities},
		{"not JSON", `entities: []`, KindMalformedJSON, ErrMalformedJSON},
		{"truncated", `{"entities": [`, KindMalformedJSON, ErrMalformedJSON},
		{"wrong entity shape", `{"entities": [{"fields": "sku"}]}`, KindInvalidEntities, ErrInvalidEntities},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := populatedStore(t)
			before := s.Entities()

			n, err := Import(s, []byte(tt.data), time.Now())

			require.Error(t, err)
			assert.Zero(t, n)
			var ie *ImportError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.kind, ie.Kind)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, before, s.Entities())
		})
	}
}

func TestImportDefaults(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	data := `{"entities": [
		{"id": "dup", "name": "A", "type": "a", "status": "published"},
		{"id": "dup", "name": "B", "type": "b", "createdAt": "2025-12-24T10:00:00Z"},
		{"id": "dup", "name": "C", "type": "c", "createdAt": ""},
		{"id": "dup", "name": "D", "type": "d", "createdAt": null}
	]}`

	entities, err := ParseRegistry([]byte(data), now)
	require.NoError(t, err)
	require.Len(t, entities, 4)

	assert.Equal(t, now, entities[0].CreatedAt)
	assert.Equal(t, time.Date(2025, 12, 24, 10, 0, 0, 0, time.UTC), entities[1].CreatedAt.UTC())
	assert.Equal(t, now, entities[2].CreatedAt, "empty createdAt counts as missing")
	assert.Equal(t, now, entities[3].CreatedAt, "null createdAt counts as missing")
	assert.Equal(t, "C", entities[2].Name)
	for _, e := range entities {
		assert.Equal(t, "dup", e.ID, "identifiers are trusted as-is")
		assert.NotNil(t, e.Fields)
		assert.NotNil(t, e.Relationships)
		assert.NotNil(t, e.ChangeLog)
	}
	assert.Equal(t, types.Status(""), entities[1].Status, "missing status is not invented")
}

func TestImportReplacesRatherThanAppends(t *testing.T) {
	s := populatedStore(t)
	n, err := Import(s, []byte(`{"entities": []}`), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, s.Len())
}
