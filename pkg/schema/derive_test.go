package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func widget() types.Entity {
	return types.Entity{
		ID:     "e-widget",
		Name:   "Widget",
		Type:   "widget",
		Status: types.StatusDraft,
		Fields: []types.Field{
			{ID: "f1", Name: "sku", Type: types.FieldString, Required: true},
			{ID: "f2", Name: "price", Type: types.FieldNumber},
		},
	}
}

func propertyNames(o *ObjectNode) []string {
	names := make([]string, 0, len(o.Properties))
	for _, p := range o.Properties {
		names = append(names, p.Name)
	}
	return names
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestDeriveWidget(t *testing.T) {
	doc := Derive(widget())

	assert.Equal(t, DraftURI, doc.Schema)
	assert.Equal(t, "urn:mdm:widget", doc.ID)
	assert.Equal(t, "Widget", doc.Title)
	assert.Equal(t, []string{"sku", "price", "createdAt", "updatedAt", "version"}, propertyNames(&doc.Root))
	assert.Equal(t, []string{"sku", "createdAt"}, doc.Root.Required)

	sku, _ := doc.Root.Get("sku")
	assert.JSONEq(t,
		`{"type":"string","x-ui":{"x-ui.widget":"text","x-ui.required":true,"x-ui.group":"identity","x-ui.order":1}}`,
		marshal(t, sku))

	price, _ := doc.Root.Get("price")
	assert.JSONEq(t, `{"type":"number","x-ui":{"x-ui.widget":"number","x-ui.order":2}}`, marshal(t, price))

	for _, name := range []string{"createdAt", "updatedAt", "version"} {
		n, ok := doc.Root.Get(name)
		require.True(t, ok, name)
		ref, ok := n.(*RefNode)
		require.True(t, ok, "%s should be a $ref", name)
		assert.Equal(t, "#/$defs/AuditMetadata/properties/"+name, ref.Ref)
	}
}

func TestDeriveInjectsSharedDefinitions(t *testing.T) {
	doc := Derive(types.Entity{ID: "e1", Type: "empty"})

	names := make([]string, 0, len(doc.Defs))
	for _, d := range doc.Defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{DefAddress, DefContact, DefAuditMetadata, DefImageMeta, DefDocumentMeta}, names)
	assert.Equal(t, "empty", doc.Title, "title falls back to type")
	assert.Equal(t, []string{"createdAt"}, doc.Root.Required)

	// Each document owns its definitions.
	other := Derive(types.Entity{ID: "e2", Type: "other"})
	addr, _ := doc.Def(DefAddress)
	addr.(*ObjectNode).Required = nil
	otherAddr, _ := other.Def(DefAddress)
	assert.NotEmpty(t, otherAddr.(*ObjectNode).Required)
}

func TestDeriveMultiWrapsInArray(t *testing.T) {
	e := widget()
	e.Fields = append(e.Fields, types.Field{ID: "f3", Name: "tags", Type: types.FieldString, Multi: true})
	doc := Derive(e)

	tags, ok := doc.Root.Get("tags")
	require.True(t, ok)
	arr, ok := tags.(*ArrayNode)
	require.True(t, ok)
	assert.Nil(t, arr.Hints)
	assert.JSONEq(t,
		`{"type":"array","items":{"type":"string","x-ui":{"x-ui.widget":"text","x-ui.multi":true,"x-ui.order":3}}}`,
		marshal(t, tags))
}

func TestDeriveImageField(t *testing.T) {
	e := widget()
	e.Fields = append(e.Fields, types.Field{ID: "f3", Name: "photo", Type: types.FieldImage})
	doc := Derive(e)

	photo, ok := doc.Root.Get("photo")
	require.True(t, ok)
	assert.JSONEq(t,
		`{"$ref":"#/$defs/ImageMeta","x-ui":{"x-ui.widget":"image","x-ui.placeholder":""}}`,
		marshal(t, photo))
}

func TestDeriveMultiRefField(t *testing.T) {
	prop := FieldProperty(types.Field{Name: "manuals", Type: types.FieldDocument, Multi: true, Description: "PDF manuals"})
	assert.JSONEq(t,
		`{"type":"array","items":{"$ref":"#/$defs/DocumentMeta","x-ui":{"x-ui.widget":"document","x-ui.placeholder":"PDF manuals"}}}`,
		marshal(t, prop))
}

func TestFieldPropertyMapping(t *testing.T) {
	tests := []struct {
		name  string
		field types.Field
		want  string
	}{
		{
			name:  "text uses textarea",
			field: types.Field{Name: "notes", Type: types.FieldText},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"textarea"}}`,
		},
		{
			name:  "date has date-time format",
			field: types.Field{Name: "bestBefore", Type: types.FieldDate},
			want:  `{"type":"string","format":"date-time","x-ui":{"x-ui.widget":"date"}}`,
		},
		{
			name:  "boolean uses checkbox",
			field: types.Field{Name: "organic", Type: types.FieldBoolean},
			want:  `{"type":"boolean","x-ui":{"x-ui.widget":"checkbox"}}`,
		},
		{
			name:  "enum carries options",
			field: types.Field{Name: "grade", Type: types.FieldEnum, Options: []string{"A", "B"}},
			want:  `{"type":"string","enum":["A","B"],"x-ui":{"x-ui.widget":"select"}}`,
		},
		{
			name:  "enum without options omits enum",
			field: types.Field{Name: "grade", Type: types.FieldEnum},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"select"}}`,
		},
		{
			name:  "relation stores id with default placeholder",
			field: types.Field{Name: "supplier", Type: types.FieldRelation, Target: "e2"},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"select","x-ui.placeholder":"Select reference id"}}`,
		},
		{
			name:  "structure is an object",
			field: types.Field{Name: "nutrition", Type: types.FieldStructure},
			want:  `{"type":"object","x-ui":{"x-ui.widget":"json"}}`,
		},
		{
			name:  "contact refs Contact",
			field: types.Field{Name: "buyer", Type: types.FieldContact},
			want:  `{"$ref":"#/$defs/Contact","x-ui":{"x-ui.widget":"contact","x-ui.placeholder":""}}`,
		},
		{
			name:  "address refs Address",
			field: types.Field{Name: "site", Type: types.FieldAddress},
			want:  `{"$ref":"#/$defs/Address","x-ui":{"x-ui.widget":"address","x-ui.placeholder":""}}`,
		},
		{
			name:  "unknown type falls back to string",
			field: types.Field{Name: "amount", Type: "currency"},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"text"}}`,
		},
		{
			name:  "description becomes placeholder",
			field: types.Field{Name: "notes", Type: types.FieldString, Description: "Free text"},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"text","x-ui.placeholder":"Free text"}}`,
		},
		{
			name:  "date-like name forces date widget",
			field: types.Field{Name: "deliveryDate", Type: types.FieldString},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"date"}}`,
		},
		{
			name:  "audit names are read-only",
			field: types.Field{Name: "updatedAt", Type: types.FieldDate},
			want:  `{"type":"string","format":"date-time","x-ui":{"x-ui.widget":"date","x-ui.readOnly":true}}`,
		},
		{
			name:  "later group rule wins",
			field: types.Field{Name: "batchCode", Type: types.FieldString},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"text","x-ui.group":"production"}}`,
		},
		{
			name:  "compliance group",
			field: types.Field{Name: "allergens", Type: types.FieldString},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"text","x-ui.group":"compliance"}}`,
		},
		{
			name:  "contact group",
			field: types.Field{Name: "phone", Type: types.FieldString},
			want:  `{"type":"string","x-ui":{"x-ui.widget":"text","x-ui.group":"contact"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, marshal(t, FieldProperty(tt.field)))
		})
	}
}

func TestFieldPropertyCoversEveryFieldType(t *testing.T) {
	for _, ft := range types.FieldTypes {
		prop := FieldProperty(types.Field{Name: "x", Type: ft})
		var widget string
		switch n := prop.(type) {
		case *RefNode:
			widget = n.Hints.Widget
		case *PrimitiveNode:
			widget = n.Hints.Widget
		case *ObjectNode:
			widget = n.Hints.Widget
		}
		require.NotEmpty(t, widget, "field type %s", ft)
		if ft != types.FieldString {
			assert.NotEqual(t, WidgetText, widget, "field type %s must not fall back to the default", ft)
		}
	}
}

func TestDeriveUserAuditFieldTakesPrecedence(t *testing.T) {
	e := widget()
	e.Fields = append(e.Fields, types.Field{ID: "f3", Name: "createdAt", Type: types.FieldNumber})
	doc := Derive(e)

	n, ok := doc.Root.Get("createdAt")
	require.True(t, ok)
	p, ok := n.(*PrimitiveNode)
	require.True(t, ok, "user field must not be replaced by the audit $ref")
	assert.Equal(t, TypeNumber, p.Type)
	assert.NotContains(t, doc.Root.Required, "createdAt", "optional user createdAt is not forced required")
}

func TestDeriveRequiredIsDeduplicated(t *testing.T) {
	e := types.Entity{
		ID:   "e1",
		Type: "lot",
		Fields: []types.Field{
			{ID: "f1", Name: "code", Type: types.FieldString, Required: true},
			{ID: "f2", Name: "code", Type: types.FieldString, Required: true},
			{ID: "f3", Name: "createdAt", Type: types.FieldDate, Required: true},
		},
	}
	doc := Derive(e)
	assert.Equal(t, []string{"code", "createdAt"}, doc.Root.Required)
	assert.Equal(t, []string{"code", "createdAt", "updatedAt", "version"}, propertyNames(&doc.Root))
}

func TestDeriveRequiredIsSubsetOfFlaggedFields(t *testing.T) {
	e := types.Entity{ID: "e1", Type: "mix"}
	for i, ft := range types.FieldTypes {
		e.Fields = append(e.Fields, types.Field{
			ID:       string(rune('a' + i)),
			Name:     string(ft) + "Field",
			Type:     ft,
			Required: i%2 == 0,
			Multi:    i%3 == 0,
		})
	}
	doc := Derive(e)

	allowed := map[string]bool{"createdAt": true}
	for _, f := range e.Fields {
		if f.Required {
			allowed[f.Name] = true
		}
	}
	seen := map[string]bool{}
	for _, r := range doc.Root.Required {
		assert.True(t, allowed[r], "unexpected required %q", r)
		assert.False(t, seen[r], "duplicate required %q", r)
		seen[r] = true
	}
	for _, f := range e.Fields {
		if !f.Multi {
			continue
		}
		n, _ := doc.Root.Get(f.Name)
		_, isArray := n.(*ArrayNode)
		assert.True(t, isArray, "%s should be an array", f.Name)
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	e := widget()
	e.Fields = append(e.Fields, types.Field{ID: "f3", Name: "photo", Type: types.FieldImage, Multi: true})
	assert.Equal(t, marshal(t, DeriveAll([]types.Entity{e})), marshal(t, DeriveAll([]types.Entity{e})))
}

func TestDeriveAllKeying(t *testing.T) {
	first := types.Entity{ID: "e1", Name: "Product A", Type: "product"}
	second := types.Entity{ID: "e2", Name: "Product B", Type: "product"}
	untyped := types.Entity{ID: "e3", Name: "Loose"}

	set := DeriveAll([]types.Entity{first, untyped, second})

	assert.Equal(t, []string{"product", "e3"}, set.Keys())
	doc, ok := set.Get("product")
	require.True(t, ok)
	assert.Equal(t, "Product B", doc.Title, "last entity with a shared type wins")
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, set.Keys(), Keys([]types.Entity{first, untyped, second}))
}

func TestDocumentMarshalShape(t *testing.T) {
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(marshal(t, Derive(widget()))), &got))

	assert.Equal(t, DraftURI, got["$schema"])
	assert.Equal(t, "object", got["type"])
	assert.Contains(t, got, "properties")
	assert.Contains(t, got, "required")
	defs, ok := got["$defs"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, defs, 5)
}
