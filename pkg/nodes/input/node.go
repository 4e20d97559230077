// Package input provides the entry-point node for flow graph execution. An
// input node has no predecessors and produces its configured value.
package input

import (
	"context"
	"time"

	"github.com/kohai-io/flowrun/pkg/models"
)

// InputNode emits its configured text or media reference as output.
type InputNode struct {
	id    string
	value any
	media map[string]any
}

// NewInputNode creates a new input node. Both value and media are optional;
// an unconfigured input produces an empty string.
func NewInputNode(id string, config map[string]any) (*InputNode, error) {
	node := &InputNode{id: id, value: ""}

	if value, ok := config["value"]; ok {
		node.value = value
	}

	if media, ok := config["media"].(map[string]any); ok {
		node.media = media
	}

	return node, nil
}

// ID returns the node ID.
func (n *InputNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *InputNode) Type() models.NodeType {
	return models.NodeTypeInput
}

// Execute produces the configured value. When a media reference is attached
// the output is a record carrying both.
func (n *InputNode) Execute(_ context.Context, _ *models.ExecutionContext, _ models.NodeInput) (map[string]models.NodeResult, error) {
	data := n.value
	if n.media != nil {
		data = map[string]any{
			"value": n.value,
			"media": n.media,
		}
	}

	return map[string]models.NodeResult{
		models.HandleMain: {
			NodeID:    n.id,
			Data:      data,
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}
