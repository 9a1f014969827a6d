package schema

import (
	"regexp"
	"strconv"
	"strings"
)

// maxRefDepth bounds $ref chains so a self-referencing document still
// projects; the cut-off branch becomes "any".
const maxRefDepth = 32

var (
	nonWordPattern    = regexp.MustCompile(`\W`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// fallbackTypeName names interfaces whose title and key have no word characters.
const fallbackTypeName = "Entity"

// TypeName returns the interface name for a document: its title with every
// non-word character removed, else the key stripped the same way, else
// "Entity". A name starting with a digit gets a leading underscore.
func TypeName(doc *Document, key string) string {
	name := nonWordPattern.ReplaceAllString(doc.Title, "")
	if name == "" {
		name = nonWordPattern.ReplaceAllString(key, "")
	}
	if name == "" {
		return fallbackTypeName
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// TypeScript renders doc as TypeScript source: one interface named typeName
// for the document itself, followed by one interface per $defs entry whose
// resolved node is an object.
func TypeScript(doc *Document, typeName string) string {
	var b strings.Builder
	b.WriteString("export interface " + typeName + " ")
	b.WriteString(objectType(doc, &doc.Root, "", 0))
	b.WriteString("\n")

	for _, def := range doc.Defs {
		obj, ok := resolveNode(doc, def.Node, 0).(*ObjectNode)
		if !ok {
			continue
		}
		b.WriteString("\nexport interface " + def.Name + " ")
		b.WriteString(objectType(doc, obj, "", 0))
		b.WriteString("\n")
	}
	return b.String()
}

// TSType returns the TypeScript type of node n within doc. Multi-line object
// types are indented relative to indent.
func TSType(doc *Document, n Node, indent string) string {
	return tsType(doc, n, indent, 0)
}

func tsType(doc *Document, n Node, indent string, depth int) string {
	switch n := n.(type) {
	case *RefNode:
		if depth >= maxRefDepth {
			return "any"
		}
		target, ok := doc.Resolve(n.Ref)
		if !ok {
			return "any"
		}
		return tsType(doc, target, indent, depth+1)
	case *PrimitiveNode:
		switch n.Type {
		case TypeString:
			return "string"
		case TypeNumber, TypeInteger:
			return "number"
		case TypeBoolean:
			return "boolean"
		default:
			return "any"
		}
	case *ArrayNode:
		if n.Items == nil {
			return "any[]"
		}
		return tsType(doc, n.Items, indent, depth) + "[]"
	case *ObjectNode:
		return objectType(doc, n, indent, depth)
	default:
		return "any"
	}
}

// objectType renders an inline object literal type. Members not listed in
// the object's required list are optional.
func objectType(doc *Document, o *ObjectNode, indent string, depth int) string {
	if len(o.Properties) == 0 {
		return "{}"
	}
	inner := indent + "  "
	var b strings.Builder
	b.WriteString("{\n")
	for _, p := range o.Properties {
		b.WriteString(inner)
		b.WriteString(memberName(p.Name))
		if !o.IsRequired(p.Name) {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(tsType(doc, p.Node, inner, depth))
		b.WriteString(";\n")
	}
	b.WriteString(indent + "}")
	return b.String()
}

// resolveNode follows $ref chains until a non-ref node is reached.
func resolveNode(doc *Document, n Node, depth int) Node {
	ref, ok := n.(*RefNode)
	if !ok {
		return n
	}
	if depth >= maxRefDepth {
		return nil
	}
	target, ok := doc.Resolve(ref.Ref)
	if !ok {
		return nil
	}
	return resolveNode(doc, target, depth+1)
}

func memberName(name string) string {
	if identifierPattern.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
