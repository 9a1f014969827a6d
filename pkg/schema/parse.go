package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// rawMember is one key of a JSON object with its undecoded value.
type rawMember struct {
	key string
	raw json.RawMessage
}

// decodeObject reads a JSON object keeping its key order.
func decodeObject(data []byte) ([]rawMember, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	var out []rawMember
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", key, err)
		}
		out = append(out, rawMember{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func lookup(members []rawMember, key string) (json.RawMessage, bool) {
	for _, m := range members {
		if m.key == key {
			return m.raw, true
		}
	}
	return nil, false
}

// ParseDocument decodes a JSON Schema document into the node model so it can
// be resolved and projected. Unknown keywords are dropped.
func ParseDocument(data []byte) (*Document, error) {
	members, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	doc := &Document{}
	for _, m := range members {
		switch m.key {
		case "$schema":
			_ = json.Unmarshal(m.raw, &doc.Schema)
		case "$id":
			_ = json.Unmarshal(m.raw, &doc.ID)
		case "title":
			_ = json.Unmarshal(m.raw, &doc.Title)
		case "$defs":
			defs, err := decodeObject(m.raw)
			if err != nil {
				return nil, fmt.Errorf("parse $defs: %w", err)
			}
			for _, d := range defs {
				n, err := parseNode(d.raw)
				if err != nil {
					return nil, fmt.Errorf("parse $defs/%s: %w", d.key, err)
				}
				doc.Defs = append(doc.Defs, Definition{Name: d.key, Node: n})
			}
		}
	}
	root, err := parseObject(members)
	if err != nil {
		return nil, err
	}
	doc.Root = *root
	return doc, nil
}

func parseNode(data []byte) (Node, error) {
	members, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	hints, err := parseHints(members)
	if err != nil {
		return nil, err
	}
	if raw, ok := lookup(members, "$ref"); ok {
		var ref string
		if err := json.Unmarshal(raw, &ref); err != nil {
			return nil, fmt.Errorf("$ref: %w", err)
		}
		return &RefNode{Ref: ref, Hints: hints}, nil
	}

	var typ string
	if raw, ok := lookup(members, "type"); ok {
		// A type list such as ["string","null"] leaves typ empty.
		_ = json.Unmarshal(raw, &typ)
	}
	switch typ {
	case "array":
		a := &ArrayNode{Hints: hints}
		if raw, ok := lookup(members, "items"); ok {
			items, err := parseNode(raw)
			if err != nil {
				return nil, fmt.Errorf("items: %w", err)
			}
			a.Items = items
		}
		return a, nil
	case "object":
		o, err := parseObject(members)
		if err != nil {
			return nil, err
		}
		o.Hints = hints
		return o, nil
	default:
		p := &PrimitiveNode{Type: Primitive(typ), Hints: hints}
		if raw, ok := lookup(members, "format"); ok {
			_ = json.Unmarshal(raw, &p.Format)
		}
		if raw, ok := lookup(members, "description"); ok {
			_ = json.Unmarshal(raw, &p.Description)
		}
		if raw, ok := lookup(members, "enum"); ok {
			var values []any
			if err := json.Unmarshal(raw, &values); err == nil {
				p.Enum = make([]string, 0, len(values))
				for _, v := range values {
					if s, ok := v.(string); ok {
						p.Enum = append(p.Enum, s)
					}
				}
			}
		}
		return p, nil
	}
}

func parseObject(members []rawMember) (*ObjectNode, error) {
	o := &ObjectNode{}
	if raw, ok := lookup(members, "description"); ok {
		_ = json.Unmarshal(raw, &o.Description)
	}
	if raw, ok := lookup(members, "properties"); ok {
		props, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("properties: %w", err)
		}
		for _, p := range props {
			n, err := parseNode(p.raw)
			if err != nil {
				return nil, fmt.Errorf("properties/%s: %w", p.key, err)
			}
			o.Properties = append(o.Properties, Property{Name: p.key, Node: n})
		}
	}
	if raw, ok := lookup(members, "required"); ok {
		if err := json.Unmarshal(raw, &o.Required); err != nil {
			return nil, fmt.Errorf("required: %w", err)
		}
	}
	return o, nil
}

func parseHints(members []rawMember) (*Hints, error) {
	raw, ok := lookup(members, hintsKey)
	if !ok {
		return nil, nil
	}
	h := &Hints{}
	if err := json.Unmarshal(raw, h); err != nil {
		return nil, fmt.Errorf("%s: %w", hintsKey, err)
	}
	return h, nil
}
