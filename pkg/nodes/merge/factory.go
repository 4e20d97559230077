package merge

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// MergeNodeFactory creates merge node instances.
type MergeNodeFactory struct{}

// NewMergeNodeFactory creates a factory for merge nodes.
func NewMergeNodeFactory() *MergeNodeFactory {
	return &MergeNodeFactory{}
}

// Create creates a new merge node instance.
func (f *MergeNodeFactory) Create(id string, config map[string]any, _ protocol.Capabilities) (protocol.Node, error) {
	return NewMergeNode(id, config)
}

// Type returns the node type.
func (f *MergeNodeFactory) Type() models.NodeType {
	return models.NodeTypeMerge
}

// Name returns the human-readable name.
func (f *MergeNodeFactory) Name() string {
	return "Merge"
}

// Description describes the node type.
func (f *MergeNodeFactory) Description() string {
	return "Waits for all live predecessors and combines their outputs (concat, collect, first, last, object)"
}

// Schema returns the JSON schema for merge node configuration.
func (f *MergeNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strategy": map[string]any{
				"type": "string",
				"enum": []any{StrategyConcat, StrategyCollect, StrategyFirst, StrategyLast, StrategyObject},
			},
			"separator": map[string]any{"type": "string", "description": "Separator for the concat strategy"},
		},
	}
}
