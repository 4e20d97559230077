// Package merge provides the join node for flow graph execution. A merge
// node waits for all of its live predecessors and combines their outputs.
package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/resolver"
)

// Merge strategies.
const (
	StrategyConcat  = "concat"
	StrategyCollect = "collect"
	StrategyFirst   = "first"
	StrategyLast    = "last"
	StrategyObject  = "object"
)

// MergeNode combines multiple predecessor outputs into one value.
type MergeNode struct {
	id        string
	strategy  string
	separator string
}

// NewMergeNode creates a new merge node.
func NewMergeNode(id string, config map[string]any) (*MergeNode, error) {
	strategy := StrategyConcat
	if s, ok := config["strategy"].(string); ok {
		strategy = s
	}

	switch strategy {
	case StrategyConcat, StrategyCollect, StrategyFirst, StrategyLast, StrategyObject:
	default:
		return nil, fmt.Errorf("unknown merge strategy %q", strategy)
	}

	separator := "\n"
	if s, ok := config["separator"].(string); ok {
		separator = s
	}

	return &MergeNode{id: id, strategy: strategy, separator: separator}, nil
}

// ID returns the node ID.
func (n *MergeNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *MergeNode) Type() models.NodeType {
	return models.NodeTypeMerge
}

// Execute combines the predecessor outputs, which arrive in edge order. A
// sole array input under concat is joined element-wise, so a loop's "done"
// aggregation feeds through without silent flattening elsewhere.
func (n *MergeNode) Execute(_ context.Context, _ *models.ExecutionContext, input models.NodeInput) (map[string]models.NodeResult, error) {
	if len(input.Values) == 0 {
		return nil, errors.New("merge node received no inputs")
	}

	var merged any

	switch n.strategy {
	case StrategyConcat:
		merged = n.concat(input.Values)
	case StrategyCollect:
		collected := make([]any, len(input.Values))
		copy(collected, input.Values)
		merged = collected
	case StrategyFirst:
		merged = input.Values[0]
	case StrategyLast:
		merged = input.Values[len(input.Values)-1]
	case StrategyObject:
		combined, err := n.mergeObjects(input.Values)
		if err != nil {
			return nil, err
		}

		merged = combined
	}

	return map[string]models.NodeResult{
		models.HandleMain: {
			NodeID:    n.id,
			Data:      merged,
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}

func (n *MergeNode) concat(values []any) string {
	if len(values) == 1 {
		if items, ok := values[0].([]any); ok {
			values = items
		}
	}

	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, resolver.Stringify(value))
	}

	return strings.Join(parts, n.separator)
}

func (n *MergeNode) mergeObjects(values []any) (map[string]any, error) {
	combined := make(map[string]any)

	for i, value := range values {
		object, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("object strategy requires map inputs, input %d is %T", i, value)
		}

		if err := mergo.Merge(&combined, object, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge input %d: %w", i, err)
		}
	}

	return combined, nil
}
