package model

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// ModelNodeFactory creates model node instances.
type ModelNodeFactory struct{}

// NewModelNodeFactory creates a factory for model nodes.
func NewModelNodeFactory() *ModelNodeFactory {
	return &ModelNodeFactory{}
}

// Create creates a new model node instance bound to the model capability.
func (f *ModelNodeFactory) Create(id string, config map[string]any, caps protocol.Capabilities) (protocol.Node, error) {
	return NewModelNode(id, config, caps.Model)
}

// Type returns the node type.
func (f *ModelNodeFactory) Type() models.NodeType {
	return models.NodeTypeModel
}

// Name returns the human-readable name.
func (f *ModelNodeFactory) Name() string {
	return "Model"
}

// Description describes the node type.
func (f *ModelNodeFactory) Description() string {
	return "Invokes an external model with a resolved prompt and generation parameters"
}

// Schema returns the JSON schema for model node configuration.
func (f *ModelNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"model_id", "prompt"},
		"properties": map[string]any{
			"model_id":    map[string]any{"type": "string"},
			"prompt":      map[string]any{"type": "string", "description": "Prompt text; may contain {{path}} references"},
			"temperature": map[string]any{"type": "number", "minimum": 0},
			"max_tokens":  map[string]any{"type": "number", "minimum": 1},
			"top_p":       map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
	}
}
