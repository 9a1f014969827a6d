package schema

import (
	"bytes"
	"encoding/json"
)

// Node is one schema fragment. Implementations: *ObjectNode, *ArrayNode,
// *PrimitiveNode, *RefNode.
type Node interface {
	json.Marshaler
	isNode()
}

// Primitive is the JSON Schema "type" of a PrimitiveNode.
type Primitive string

// Primitive types produced by derivation. Parsed documents may carry others,
// which project to "any".
const (
	TypeString  Primitive = "string"
	TypeNumber  Primitive = "number"
	TypeInteger Primitive = "integer"
	TypeBoolean Primitive = "boolean"
)

// Property is a named member of an object node.
type Property struct {
	Name string
	Node Node
}

// ObjectNode is {"type":"object"} with ordered properties.
type ObjectNode struct {
	Description string
	Properties  []Property
	Required    []string
	Hints       *Hints
}

// ArrayNode is {"type":"array","items":...}. A nil Items means any element.
type ArrayNode struct {
	Items Node
	Hints *Hints
}

// PrimitiveNode is a scalar type with optional format and enum.
// Enum is emitted whenever it is non-nil, including an empty list.
type PrimitiveNode struct {
	Type        Primitive
	Format      string
	Enum        []string
	Description string
	Hints       *Hints
}

// RefNode is a local {"$ref":"#/..."} pointer with optional hints next to it.
type RefNode struct {
	Ref   string
	Hints *Hints
}

func (*ObjectNode) isNode()    {}
func (*ArrayNode) isNode()     {}
func (*PrimitiveNode) isNode() {}
func (*RefNode) isNode()       {}

// Get returns the property with the given name.
func (o *ObjectNode) Get(name string) (Node, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p.Node, true
		}
	}
	return nil, false
}

// Has reports whether a property with the given name exists.
func (o *ObjectNode) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// Set replaces the named property in place, or appends it.
func (o *ObjectNode) Set(name string, n Node) {
	for i, p := range o.Properties {
		if p.Name == name {
			o.Properties[i].Node = n
			return
		}
	}
	o.Properties = append(o.Properties, Property{Name: name, Node: n})
}

// IsRequired reports whether name is listed in Required.
func (o *ObjectNode) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

func (o *ObjectNode) members() orderedObject {
	out := orderedObject{{"type", "object"}}
	if o.Description != "" {
		out = append(out, member{"description", o.Description})
	}
	if len(o.Properties) > 0 {
		out = append(out, member{"properties", propertiesObject(o.Properties)})
	}
	if len(o.Required) > 0 {
		out = append(out, member{"required", o.Required})
	}
	if o.Hints != nil {
		out = append(out, member{hintsKey, o.Hints})
	}
	return out
}

func (o *ObjectNode) MarshalJSON() ([]byte, error) {
	return o.members().MarshalJSON()
}

func (a *ArrayNode) MarshalJSON() ([]byte, error) {
	out := orderedObject{{"type", "array"}}
	if a.Items != nil {
		out = append(out, member{"items", a.Items})
	}
	if a.Hints != nil {
		out = append(out, member{hintsKey, a.Hints})
	}
	return out.MarshalJSON()
}

func (p *PrimitiveNode) MarshalJSON() ([]byte, error) {
	var out orderedObject
	if p.Type != "" {
		out = append(out, member{"type", p.Type})
	}
	if p.Format != "" {
		out = append(out, member{"format", p.Format})
	}
	if p.Enum != nil {
		out = append(out, member{"enum", p.Enum})
	}
	if p.Description != "" {
		out = append(out, member{"description", p.Description})
	}
	if p.Hints != nil {
		out = append(out, member{hintsKey, p.Hints})
	}
	return out.MarshalJSON()
}

func (r *RefNode) MarshalJSON() ([]byte, error) {
	out := orderedObject{{"$ref", r.Ref}}
	if r.Hints != nil {
		out = append(out, member{hintsKey, r.Hints})
	}
	return out.MarshalJSON()
}

// member is one key/value pair of an orderedObject.
type member struct {
	key   string
	value any
}

// orderedObject marshals as a JSON object with keys in slice order.
type orderedObject []member

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func propertiesObject(props []Property) orderedObject {
	out := make(orderedObject, 0, len(props))
	for _, p := range props {
		out = append(out, member{p.Name, p.Node})
	}
	return out
}
