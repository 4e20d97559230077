package output

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// OutputNodeFactory creates output node instances.
type OutputNodeFactory struct{}

// NewOutputNodeFactory creates a factory for output nodes.
func NewOutputNodeFactory() *OutputNodeFactory {
	return &OutputNodeFactory{}
}

// Create creates a new output node instance.
func (f *OutputNodeFactory) Create(id string, config map[string]any, _ protocol.Capabilities) (protocol.Node, error) {
	return NewOutputNode(id, config)
}

// Type returns the node type.
func (f *OutputNodeFactory) Type() models.NodeType {
	return models.NodeTypeOutput
}

// Name returns the human-readable name.
func (f *OutputNodeFactory) Name() string {
	return "Output"
}

// Description describes the node type.
func (f *OutputNodeFactory) Description() string {
	return "Renders a resolved template as the flow's result (text, JSON, markdown, file reference)"
}

// Schema returns the JSON schema for output node configuration.
func (f *OutputNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{"type": "string", "description": "Template for the rendered value; defaults to {{input}}"},
			"format": map[string]any{
				"type": "string",
				"enum": []any{FormatText, FormatJSON, FormatMarkdown, FormatFile},
			},
		},
	}
}
