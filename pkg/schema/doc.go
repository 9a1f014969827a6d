// Package schema derives JSON Schema (draft 2020-12) documents from registry
// entities and projects those documents to TypeScript interface source.
//
// Schema fragments are a closed set of node types (ObjectNode, ArrayNode,
// PrimitiveNode, RefNode); both engines switch over them exhaustively. Key
// order is preserved on output: properties appear in field order, followed by
// the audit properties, and x-ui hints appear in a fixed order.
package schema
