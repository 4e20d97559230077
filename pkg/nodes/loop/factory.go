package loop

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// LoopNodeFactory creates loop node instances.
type LoopNodeFactory struct{}

// NewLoopNodeFactory creates a factory for loop nodes.
func NewLoopNodeFactory() *LoopNodeFactory {
	return &LoopNodeFactory{}
}

// Create creates a new loop node instance.
func (f *LoopNodeFactory) Create(id string, config map[string]any, _ protocol.Capabilities) (protocol.Node, error) {
	return NewLoopNode(id, config)
}

// Type returns the node type.
func (f *LoopNodeFactory) Type() models.NodeType {
	return models.NodeTypeLoop
}

// Name returns the human-readable name.
func (f *LoopNodeFactory) Name() string {
	return "Loop"
}

// Description describes the node type.
func (f *LoopNodeFactory) Description() string {
	return "Drives its 'each' subgraph once per iteration (fixed count, array elements, or until a condition holds) and emits the aggregated results on 'done'"
}

// Schema returns the JSON schema for loop node configuration.
func (f *LoopNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"mode"},
		"properties": map[string]any{
			"mode":           map[string]any{"type": "string", "enum": []any{ModeCount, ModeArray, ModeUntil}},
			"count":          map[string]any{"type": "number", "minimum": 1},
			"items":          map[string]any{"type": "string", "description": "{{path}} expression resolving to an array"},
			"break_when":     map[string]any{"type": "string", "description": "Condition checked after each iteration in until mode"},
			"max_iterations": map[string]any{"type": "number", "minimum": 1},
		},
	}
}
