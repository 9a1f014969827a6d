package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "product", (&Entity{ID: "e1", Type: "product"}).Key())
	assert.Equal(t, "e1", (&Entity{ID: "e1"}).Key(), "falls back to ID when type is empty")
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"product", true},
		{"finished-good", true},
		{"0190a1b2-uuid", true},
		{"v1..v2", true},
		{"", false},
		{"..", false},
		{"../escaped", false},
		{"a/b", false},
		{`a\b`, false},
		{"/abs", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}

func TestEntitySetStatus(t *testing.T) {
	tests := []struct {
		name    string
		target  Status
		wantErr error
	}{
		{name: "draft", target: StatusDraft},
		{name: "published", target: StatusPublished},
		{name: "retired", target: StatusRetired},
		{name: "unknown rejected", target: "archived", wantErr: ErrInvalidStatus},
		{name: "empty rejected", target: "", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entity{Status: StatusDraft}
			err := e.SetStatus(tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, StatusDraft, e.Status, "status should not change on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, e.Status)
		})
	}
}

func TestEntityCloneIsDeep(t *testing.T) {
	orig := Entity{
		ID:          "e1",
		ExternalIDs: []string{"SAP-1"},
		CreatedAt:   time.Now(),
		Fields: []Field{
			{ID: "f1", Name: "grade", Type: FieldEnum, Options: []string{"A", "B"}},
		},
		Relationships: []Relationship{{ID: "r1", Name: "supplier", Cardinality: OneToMany}},
		ChangeLog: []ChangeLogEntry{
			{ID: "c1", Snapshot: Entity{ID: "e1", Fields: []Field{{ID: "f1", Name: "grade"}}}},
		},
	}

	cp := orig.Clone()
	cp.ExternalIDs[0] = "changed"
	cp.Fields[0].Options[0] = "Z"
	cp.Relationships[0].Name = "changed"
	cp.ChangeLog[0].Snapshot.Fields[0].Name = "changed"

	assert.Equal(t, "SAP-1", orig.ExternalIDs[0])
	assert.Equal(t, "A", orig.Fields[0].Options[0])
	assert.Equal(t, "supplier", orig.Relationships[0].Name)
	assert.Equal(t, "grade", orig.ChangeLog[0].Snapshot.Fields[0].Name)
}

func TestEntityNormalize(t *testing.T) {
	e := &Entity{}
	e.Normalize()
	assert.NotNil(t, e.Fields)
	assert.NotNil(t, e.Relationships)
	assert.NotNil(t, e.ChangeLog)
}

func TestEntityLookups(t *testing.T) {
	e := &Entity{
		Fields:        []Field{{ID: "f1", Name: "sku"}, {ID: "f2", Name: "price"}},
		Relationships: []Relationship{{ID: "r1"}},
	}

	f, ok := e.FieldByName("price")
	require.True(t, ok)
	assert.Equal(t, "f2", f.ID)

	_, ok = e.FieldByName("missing")
	assert.False(t, ok)

	assert.Equal(t, 1, e.FieldIndex("f2"))
	assert.Equal(t, -1, e.FieldIndex("nope"))
	assert.Equal(t, 0, e.RelationshipIndex("r1"))
	assert.Equal(t, -1, e.RelationshipIndex("nope"))
}

func TestParseFieldType(t *testing.T) {
	for _, ft := range FieldTypes {
		got, err := ParseFieldType(string(ft))
		require.NoError(t, err)
		assert.Equal(t, ft, got)
	}

	_, err := ParseFieldType("currency")
	assert.ErrorIs(t, err, ErrInvalidFieldType)
	assert.False(t, FieldType("currency").IsValid())
}

func TestParseCardinality(t *testing.T) {
	for _, s := range []string{"1:1", "1:n", "n:m"} {
		c, err := ParseCardinality(s)
		require.NoError(t, err)
		assert.Equal(t, Cardinality(s), c)
	}
	_, err := ParseCardinality("n:1")
	assert.ErrorIs(t, err, ErrInvalidCardinality)
}

func TestDraftIsZero(t *testing.T) {
	assert.True(t, Draft{}.IsZero())
	assert.False(t, Draft{Name: "Widget"}.IsZero())
	assert.False(t, Draft{Fields: []Field{{Name: "sku"}}}.IsZero())
}
