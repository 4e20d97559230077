// Package output provides the terminal rendering node for flow graph
// execution.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/resolver"
)

// Supported output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatFile     = "file"
)

// OutputNode renders its resolved template according to the configured
// format. When fed repeatedly from a loop's "each" handle the executor
// collects one rendered entry per iteration through Accumulate.
type OutputNode struct {
	id       string
	template string
	format   string
}

// NewOutputNode creates a new output node. Template defaults to `{{input}}`
// so a bare output node passes its predecessor's value through.
func NewOutputNode(id string, config map[string]any) (*OutputNode, error) {
	template := "{{input}}"
	if t, ok := config["template"].(string); ok {
		template = t
	}

	format := FormatText
	if f, ok := config["format"].(string); ok {
		format = f
	}

	switch format {
	case FormatText, FormatJSON, FormatMarkdown, FormatFile:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	return &OutputNode{id: id, template: template, format: format}, nil
}

// ID returns the node ID.
func (n *OutputNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *OutputNode) Type() models.NodeType {
	return models.NodeTypeOutput
}

// Execute resolves the template and renders the result.
func (n *OutputNode) Execute(_ context.Context, state *models.ExecutionContext, input models.NodeInput) (map[string]models.NodeResult, error) {
	value := resolver.Parse(n.template).Value(resolver.ScopeFromExecution(state, input.Primary))

	rendered, err := n.render(value)
	if err != nil {
		return nil, err
	}

	return map[string]models.NodeResult{
		models.HandleMain: {
			NodeID:    n.id,
			Data:      rendered,
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}

func (n *OutputNode) render(value any) (any, error) {
	switch n.format {
	case FormatJSON:
		// A string that already holds JSON is re-emitted structured rather
		// than double-encoded.
		if s, ok := value.(string); ok {
			var parsed any
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				value = parsed
			}
		}

		encoded, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to render JSON output: %w", err)
		}

		return string(encoded), nil
	case FormatFile:
		return map[string]any{"file": resolver.Stringify(value)}, nil
	default:
		return resolver.Stringify(value), nil
	}
}

// Accumulate returns the per-iteration entries as the node's final value
// when the node sits behind a loop's "each" handle.
func (n *OutputNode) Accumulate(entries []any) any {
	return entries
}
