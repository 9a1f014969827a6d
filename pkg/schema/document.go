package schema

import (
	"encoding/json"
	"strings"
)

// DraftURI is the $schema value of every derived document.
const DraftURI = "https://json-schema.org/draft/2020-12/schema"

// Document is a derived schema for one entity: a top-level object plus $defs.
type Document struct {
	Schema string
	ID     string
	Title  string
	Root   ObjectNode
	Defs   []Definition
}

// Def returns the $defs entry with the given name.
func (d *Document) Def(name string) (Node, bool) {
	for _, def := range d.Defs {
		if def.Name == name {
			return def.Node, true
		}
	}
	return nil, false
}

func (d *Document) MarshalJSON() ([]byte, error) {
	out := orderedObject{}
	if d.Schema != "" {
		out = append(out, member{"$schema", d.Schema})
	}
	if d.ID != "" {
		out = append(out, member{"$id", d.ID})
	}
	if d.Title != "" {
		out = append(out, member{"title", d.Title})
	}
	out = append(out, member{"type", "object"})
	if d.Root.Description != "" {
		out = append(out, member{"description", d.Root.Description})
	}
	required := d.Root.Required
	if required == nil {
		required = []string{}
	}
	out = append(out,
		member{"properties", propertiesObject(d.Root.Properties)},
		member{"required", required},
	)
	if len(d.Defs) > 0 {
		defs := make(orderedObject, 0, len(d.Defs))
		for _, def := range d.Defs {
			defs = append(defs, member{def.Name, def.Node})
		}
		out = append(out, member{"$defs", defs})
	}
	return out.MarshalJSON()
}

func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// Resolve follows a local "#/..." pointer against the document. The first
// segment is either $defs (followed by a definition name) or a member of the
// root object; the rest walk "properties/<name>" and "items" steps.
// Non-local or unresolvable pointers return false.
func (d *Document) Resolve(ref string) (Node, bool) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, false
	}
	segs := strings.Split(ref[2:], "/")
	for i := range segs {
		segs[i] = unescapePointer(segs[i])
	}

	var cur Node = &d.Root
	if segs[0] == "$defs" {
		if len(segs) < 2 {
			return nil, false
		}
		def, ok := d.Def(segs[1])
		if !ok {
			return nil, false
		}
		cur, segs = def, segs[2:]
	}
	return walk(cur, segs)
}

func walk(cur Node, segs []string) (Node, bool) {
	for len(segs) > 0 {
		switch n := cur.(type) {
		case *ObjectNode:
			if segs[0] != "properties" || len(segs) < 2 {
				return nil, false
			}
			next, ok := n.Get(segs[1])
			if !ok {
				return nil, false
			}
			cur, segs = next, segs[2:]
		case *ArrayNode:
			if segs[0] != "items" || n.Items == nil {
				return nil, false
			}
			cur, segs = n.Items, segs[1:]
		default:
			return nil, false
		}
	}
	return cur, true
}

func unescapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// Set is an ordered collection of documents keyed by entity key. Putting an
// existing key replaces its document but keeps its original position.
type Set struct {
	keys []string
	docs map[string]*Document
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{docs: make(map[string]*Document)}
}

// Put stores doc under key.
func (s *Set) Put(key string, doc *Document) {
	if _, ok := s.docs[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.docs[key] = doc
}

// Get returns the document stored under key.
func (s *Set) Get(key string) (*Document, bool) {
	doc, ok := s.docs[key]
	return doc, ok
}

// Keys returns the keys in insertion order.
func (s *Set) Keys() []string {
	return append([]string{}, s.keys...)
}

// Len returns the number of documents.
func (s *Set) Len() int {
	return len(s.keys)
}

func (s *Set) MarshalJSON() ([]byte, error) {
	out := make(orderedObject, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, member{k, s.docs[k]})
	}
	return out.MarshalJSON()
}

func (s *Set) UnmarshalJSON(data []byte) error {
	members, err := decodeObject(data)
	if err != nil {
		return err
	}
	*s = *NewSet()
	for _, m := range members {
		doc, err := ParseDocument(m.raw)
		if err != nil {
			return err
		}
		s.Put(m.key, doc)
	}
	return nil
}

var _ json.Unmarshaler = (*Set)(nil)
