package knowledge

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// KnowledgeNodeFactory creates knowledge node instances.
type KnowledgeNodeFactory struct{}

// NewKnowledgeNodeFactory creates a factory for knowledge nodes.
func NewKnowledgeNodeFactory() *KnowledgeNodeFactory {
	return &KnowledgeNodeFactory{}
}

// Create creates a new knowledge node instance bound to the retrieval capability.
func (f *KnowledgeNodeFactory) Create(id string, config map[string]any, caps protocol.Capabilities) (protocol.Node, error) {
	return NewKnowledgeNode(id, config, caps.Knowledge)
}

// Type returns the node type.
func (f *KnowledgeNodeFactory) Type() models.NodeType {
	return models.NodeTypeKnowledge
}

// Name returns the human-readable name.
func (f *KnowledgeNodeFactory) Name() string {
	return "Knowledge"
}

// Description describes the node type.
func (f *KnowledgeNodeFactory) Description() string {
	return "Retrieves chunks from an external knowledge base with a resolved query"
}

// Schema returns the JSON schema for knowledge node configuration.
func (f *KnowledgeNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"knowledge_base_id", "query"},
		"properties": map[string]any{
			"knowledge_base_id": map[string]any{"type": "string"},
			"query":             map[string]any{"type": "string", "description": "Query text; may contain {{path}} references"},
			"top_k":             map[string]any{"type": "number", "minimum": 1},
			"threshold":         map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"rerank":            map[string]any{"type": "boolean"},
			"hybrid":            map[string]any{"type": "boolean"},
		},
	}
}
