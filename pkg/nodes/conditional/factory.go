package conditional

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// ConditionalNodeFactory creates conditional node instances.
type ConditionalNodeFactory struct{}

// NewConditionalNodeFactory creates a factory for conditional nodes.
func NewConditionalNodeFactory() *ConditionalNodeFactory {
	return &ConditionalNodeFactory{}
}

// Create creates a new conditional node instance.
func (f *ConditionalNodeFactory) Create(id string, config map[string]any, _ protocol.Capabilities) (protocol.Node, error) {
	return NewConditionalNode(id, config)
}

// Type returns the node type.
func (f *ConditionalNodeFactory) Type() models.NodeType {
	return models.NodeTypeConditional
}

// Name returns the human-readable name.
func (f *ConditionalNodeFactory) Name() string {
	return "Conditional"
}

// Description describes the node type.
func (f *ConditionalNodeFactory) Description() string {
	return "Compares its input against a configured value and routes execution to the true or false branch"
}

// Schema returns the JSON schema for conditional node configuration.
func (f *ConditionalNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"operator"},
		"properties": map[string]any{
			"operator": map[string]any{
				"type": "string",
				"enum": []any{OpEquals, OpNotEquals, OpContains, OpGreater, OpLess, OpRegex},
			},
			"value": map[string]any{
				"type":        "string",
				"description": "Comparison value; may contain {{path}} references",
			},
		},
	}
}
