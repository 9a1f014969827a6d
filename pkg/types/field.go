package types

import "fmt"

// FieldType is the semantic type of a field. It decides the shape of the
// derived schema property and the UI widget attached to it.
type FieldType string

// Field types understood by the schema derivation engine.
const (
	FieldString    FieldType = "string"
	FieldText      FieldType = "text"
	FieldNumber    FieldType = "number"
	FieldDate      FieldType = "date"
	FieldBoolean   FieldType = "boolean"
	FieldEnum      FieldType = "enum"
	FieldRelation  FieldType = "relation"
	FieldImage     FieldType = "image"
	FieldDocument  FieldType = "document"
	FieldContact   FieldType = "contact"
	FieldAddress   FieldType = "address"
	FieldStructure FieldType = "structure"
)

// FieldTypes lists every recognized field type in declaration order.
var FieldTypes = []FieldType{
	FieldString,
	FieldText,
	FieldNumber,
	FieldDate,
	FieldBoolean,
	FieldEnum,
	FieldRelation,
	FieldImage,
	FieldDocument,
	FieldContact,
	FieldAddress,
	FieldStructure,
}

// validFieldTypes is the set of recognized field types.
var validFieldTypes = func() map[FieldType]bool {
	m := make(map[FieldType]bool, len(FieldTypes))
	for _, ft := range FieldTypes {
		m[ft] = true
	}
	return m
}()

// IsValid reports whether ft is a recognized field type. Imported registries
// may carry unknown values; those are kept as-is and derive to a plain string.
func (ft FieldType) IsValid() bool {
	return validFieldTypes[ft]
}

// ParseFieldType converts s to a FieldType.
// Returns ErrInvalidFieldType if s is not recognized.
func ParseFieldType(s string) (FieldType, error) {
	ft := FieldType(s)
	if !ft.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFieldType, s)
	}
	return ft, nil
}

// Field is a typed attribute on an entity. Name is the property key in the
// derived schema.
type Field struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Multi       bool      `json:"multi"`
	Description string    `json:"description,omitempty"`
	Options     []string  `json:"options,omitempty"` // enum only
	Target      string    `json:"target,omitempty"`  // relation only
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	if f.Options != nil {
		f.Options = append([]string{}, f.Options...)
	}
	return f
}
