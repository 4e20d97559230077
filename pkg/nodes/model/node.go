// Package model provides the model invocation node for flow graph execution.
// The node resolves variable references in its prompt and delegates the call
// to an externally supplied ModelInvoker capability.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
	"github.com/kohai-io/flowrun/pkg/resolver"
)

// ModelNode invokes an external model with a resolved prompt.
type ModelNode struct {
	id      string
	modelID string
	prompt  string
	params  protocol.GenerationParams
	invoker protocol.ModelInvoker
}

// NewModelNode creates a new model node.
func NewModelNode(id string, config map[string]any, invoker protocol.ModelInvoker) (*ModelNode, error) {
	modelID, ok := config["model_id"].(string)
	if !ok {
		return nil, errors.New("missing required field 'model_id'")
	}

	prompt, ok := config["prompt"].(string)
	if !ok {
		return nil, errors.New("missing required field 'prompt'")
	}

	params := protocol.GenerationParams{Temperature: 0.7, MaxTokens: 1024, TopP: 1.0}

	if temperature, ok := config["temperature"].(float64); ok {
		params.Temperature = temperature
	}

	if maxTokens, ok := config["max_tokens"].(float64); ok {
		params.MaxTokens = int(maxTokens)
	}

	if topP, ok := config["top_p"].(float64); ok {
		params.TopP = topP
	}

	return &ModelNode{
		id:      id,
		modelID: modelID,
		prompt:  prompt,
		params:  params,
		invoker: invoker,
	}, nil
}

// ID returns the node ID.
func (n *ModelNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ModelNode) Type() models.NodeType {
	return models.NodeTypeModel
}

// Execute resolves the prompt and invokes the model capability. An
// unresolved variable leaves a literal gap in the prompt; the call is still
// attempted. Failure of the external call is this node's error.
func (n *ModelNode) Execute(ctx context.Context, state *models.ExecutionContext, input models.NodeInput) (map[string]models.NodeResult, error) {
	if n.invoker == nil {
		return nil, errors.New("model capability not configured")
	}

	prompt := resolver.Render(n.prompt, resolver.ScopeFromExecution(state, input.Primary))

	text, err := n.invoker.InvokeModel(ctx, n.modelID, prompt, n.params)
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	return map[string]models.NodeResult{
		models.HandleMain: {
			NodeID:    n.id,
			Data:      text,
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}
