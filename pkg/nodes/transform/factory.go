package transform

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// TransformNodeFactory creates transform node instances.
type TransformNodeFactory struct{}

// NewTransformNodeFactory creates a factory for transform nodes.
func NewTransformNodeFactory() *TransformNodeFactory {
	return &TransformNodeFactory{}
}

// Create creates a new transform node instance.
func (f *TransformNodeFactory) Create(id string, config map[string]any, _ protocol.Capabilities) (protocol.Node, error) {
	return NewTransformNode(id, config)
}

// Type returns the node type.
func (f *TransformNodeFactory) Type() models.NodeType {
	return models.NodeTypeTransform
}

// Name returns the human-readable name.
func (f *TransformNodeFactory) Name() string {
	return "Transform"
}

// Description describes the node type.
func (f *TransformNodeFactory) Description() string {
	return "Applies a pure text operation (case conversion, trim, regex replace, JSON extraction, template) to its input"
}

// Schema returns the JSON schema for transform node configuration.
func (f *TransformNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"operation"},
		"properties": map[string]any{
			"operation": map[string]any{
				"type": "string",
				"enum": []any{OpUppercase, OpLowercase, OpTrim, OpRegexReplace, OpJSONExtract, OpTemplate},
			},
			"pattern":     map[string]any{"type": "string", "description": "Regular expression for regex_replace"},
			"replacement": map[string]any{"type": "string", "description": "Replacement text for regex_replace"},
			"path":        map[string]any{"type": "string", "description": "Extraction path for json_extract"},
			"template":    map[string]any{"type": "string", "description": "Template string for the template operation"},
		},
	}
}
