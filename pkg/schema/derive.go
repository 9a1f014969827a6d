package schema

import "github.com/mesh-intelligence/mdmreg/pkg/types"

const (
	relationPlaceholder = "Select reference id"
	dateTimeFormat      = "date-time"
)

// auditProperties are added to every document unless a field already
// produced a property of the same name.
var auditProperties = []struct {
	name     string
	required bool
}{
	{"createdAt", true},
	{"updatedAt", false},
	{"version", false},
}

// FieldProperty maps one field to its schema property. Image, document,
// contact and address fields become a $ref into the shared definitions with
// a widget and placeholder hint beside it; every other type becomes an inline
// node carrying the full hint set. Multi-value fields are wrapped in an array
// after mapping.
func FieldProperty(f types.Field) Node {
	var n Node
	switch f.Type {
	case types.FieldImage:
		n = refProperty(f, DefImageMeta, WidgetImage)
	case types.FieldDocument:
		n = refProperty(f, DefDocumentMeta, WidgetDocument)
	case types.FieldContact:
		n = refProperty(f, DefContact, WidgetContact)
	case types.FieldAddress:
		n = refProperty(f, DefAddress, WidgetAddress)
	case types.FieldString:
		n = inlineProperty(f, &PrimitiveNode{Type: TypeString}, WidgetText)
	case types.FieldText:
		n = inlineProperty(f, &PrimitiveNode{Type: TypeString}, WidgetTextarea)
	case types.FieldNumber:
		n = inlineProperty(f, &PrimitiveNode{Type: TypeNumber}, WidgetNumber)
	case types.FieldDate:
		n = inlineProperty(f, &PrimitiveNode{Type: TypeString, Format: dateTimeFormat}, WidgetDate)
	case types.FieldBoolean:
		n = inlineProperty(f, &PrimitiveNode{Type: TypeBoolean}, WidgetCheckbox)
	case types.FieldEnum:
		n = inlineProperty(f, &PrimitiveNode{Type: TypeString, Enum: cloneStrings(f.Options)}, WidgetSelect)
	case types.FieldRelation:
		n = inlineProperty(f, &PrimitiveNode{Type: TypeString}, WidgetSelect)
	case types.FieldStructure:
		n = inlineProperty(f, &ObjectNode{}, WidgetJSON)
	default:
		n = inlineProperty(f, &PrimitiveNode{Type: TypeString}, WidgetText)
	}
	if f.Multi {
		return &ArrayNode{Items: n}
	}
	return n
}

func refProperty(f types.Field, def, widget string) Node {
	return &RefNode{
		Ref:   defRef(def),
		Hints: &Hints{Widget: widget, Placeholder: ptr(f.Description)},
	}
}

// inlineProperty attaches the hint set derived from the field to n.
func inlineProperty(f types.Field, n Node, widget string) Node {
	h := &Hints{Widget: widget}
	switch {
	case f.Description != "":
		h.Placeholder = ptr(f.Description)
	case f.Type == types.FieldRelation:
		h.Placeholder = ptr(relationPlaceholder)
	}
	h.Multi = f.Multi
	h.Required = f.Required
	if dateNamePattern.MatchString(f.Name) {
		h.Widget = WidgetDate
	}
	h.ReadOnly = readOnlyNamePattern.MatchString(f.Name)
	h.Group = groupFor(f.Name)

	switch n := n.(type) {
	case *PrimitiveNode:
		n.Hints = h
	case *ObjectNode:
		n.Hints = h
	}
	return n
}

// setOrder records the 1-based field position on the node that carries the
// field's inline hints. Ref-based properties keep only their widget hints.
func setOrder(n Node, order int) {
	switch n := n.(type) {
	case *ArrayNode:
		setOrder(n.Items, order)
	case *PrimitiveNode:
		if n.Hints != nil {
			n.Hints.Order = order
		}
	case *ObjectNode:
		if n.Hints != nil {
			n.Hints.Order = order
		}
	case *RefNode:
	}
}

// Derive builds the schema document for one entity. It is pure: the same
// entity always yields an equal document.
func Derive(e types.Entity) *Document {
	title := e.Name
	if title == "" {
		title = e.Type
	}
	doc := &Document{
		Schema: DraftURI,
		ID:     "urn:mdm:" + e.Type,
		Title:  title,
	}

	var required []string
	for i, f := range e.Fields {
		prop := FieldProperty(f)
		setOrder(prop, i+1)
		doc.Root.Set(f.Name, prop)
		if f.Required {
			required = append(required, f.Name)
		}
	}

	doc.Defs = SharedDefinitions()

	for _, a := range auditProperties {
		if doc.Root.Has(a.name) {
			continue
		}
		doc.Root.Set(a.name, &RefNode{Ref: defRef(DefAuditMetadata) + "/properties/" + a.name})
		if a.required {
			required = append(required, a.name)
		}
	}

	doc.Root.Required = dedupe(required)
	return doc
}

// DeriveAll derives one document per entity keyed by Entity.Key. When two
// entities share a key the later one wins.
func DeriveAll(entities []types.Entity) *Set {
	set := NewSet()
	for _, e := range entities {
		set.Put(e.Key(), Derive(e))
	}
	return set
}

// Keys returns the schema keys DeriveAll would produce, in assembly order.
func Keys(entities []types.Entity) []string {
	return DeriveAll(entities).Keys()
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
