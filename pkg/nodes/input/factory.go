package input

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// InputNodeFactory creates input node instances.
type InputNodeFactory struct{}

// NewInputNodeFactory creates a factory for input nodes.
func NewInputNodeFactory() *InputNodeFactory {
	return &InputNodeFactory{}
}

// Create creates a new input node instance.
func (f *InputNodeFactory) Create(id string, config map[string]any, _ protocol.Capabilities) (protocol.Node, error) {
	return NewInputNode(id, config)
}

// Type returns the node type.
func (f *InputNodeFactory) Type() models.NodeType {
	return models.NodeTypeInput
}

// Name returns the human-readable name.
func (f *InputNodeFactory) Name() string {
	return "Input"
}

// Description describes the node type.
func (f *InputNodeFactory) Description() string {
	return "Provides a configured text value or media reference as the flow's entry point"
}

// Schema returns the JSON schema for input node configuration.
func (f *InputNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{
				"description": "Static value the node produces",
			},
			"media": map[string]any{
				"type":        "object",
				"description": "Optional attached media reference",
			},
		},
	}
}
