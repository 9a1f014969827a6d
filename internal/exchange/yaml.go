package exchange

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RenderYAML converts a JSON document to block-style YAML. Key order is kept
// because the JSON text is parsed into a yaml.Node tree rather than a map.
func RenderYAML(jsonData []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(jsonData, &root); err != nil {
		return nil, fmt.Errorf("parsing JSON as YAML: %w", err)
	}
	blockStyle(&root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// blockStyle clears the flow style JSON input produces, keeping scalar
// quoting so strings such as "1:n" stay strings.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
