package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/mdmreg/pkg/schema"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func TestRenderYAMLKeepsOrderAndValues(t *testing.T) {
	out, err := RenderYAML([]byte(`{"zeta": 1, "alpha": {"card": "1:n", "list": [true, null]}}`))
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &node))
	top := node.Content[0]
	require.Equal(t, yaml.MappingNode, top.Kind)
	assert.Equal(t, "zeta", top.Content[0].Value)
	assert.Equal(t, "alpha", top.Content[2].Value)
	assert.Zero(t, top.Style&yaml.FlowStyle, "output uses block style")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	alpha := decoded["alpha"].(map[string]any)
	assert.Equal(t, "1:n", alpha["card"])
	assert.Equal(t, []any{true, nil}, alpha["list"])
}

func TestRenderYAMLSchema(t *testing.T) {
	data, err := ExportSchemas([]types.Entity{{ID: "e1", Name: "Widget", Type: "widget"}}, exportTime)
	require.NoError(t, err)

	out, err := RenderYAML(data)
	require.NoError(t, err)

	var decoded struct {
		Schemas map[string]struct {
			ID       string   `yaml:"$id"`
			Required []string `yaml:"required"`
		} `yaml:"schemas"`
	}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "urn:mdm:widget", decoded.Schemas["widget"].ID)
	assert.Equal(t, []string{"createdAt"}, decoded.Schemas["widget"].Required)
	assert.Contains(t, string(out), schema.DraftURI)
}
