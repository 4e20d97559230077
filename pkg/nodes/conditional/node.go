// Package conditional provides the branching node for flow graph execution.
// Exactly one of the "true"/"false" output handles is activated per run; the
// executor prunes the subgraph behind the other handle.
package conditional

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/resolver"
)

// Supported comparison operators.
const (
	OpEquals    = "equals"
	OpNotEquals = "not_equals"
	OpContains  = "contains"
	OpGreater   = "greater"
	OpLess      = "less"
	OpRegex     = "regex"
)

// ConditionalNode compares its input against a configured value and routes
// execution to the "true" or "false" handle.
type ConditionalNode struct {
	id       string
	operator string
	value    string
	pattern  *regexp.Regexp
}

// NewConditionalNode creates a new conditional node. For the regex operator
// the comparison value must be a valid pattern and must not contain variable
// references, so it can be compiled once here.
func NewConditionalNode(id string, config map[string]any) (*ConditionalNode, error) {
	operator, ok := config["operator"].(string)
	if !ok {
		return nil, errors.New("missing required field 'operator'")
	}

	switch operator {
	case OpEquals, OpNotEquals, OpContains, OpGreater, OpLess, OpRegex:
	default:
		return nil, fmt.Errorf("unknown operator %q", operator)
	}

	value, _ := config["value"].(string)

	node := &ConditionalNode{
		id:       id,
		operator: operator,
		value:    value,
	}

	if operator == OpRegex {
		pattern, err := regexp.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("invalid regex value %q: %w", value, err)
		}

		node.pattern = pattern
	}

	return node, nil
}

// ID returns the node ID.
func (n *ConditionalNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ConditionalNode) Type() models.NodeType {
	return models.NodeTypeConditional
}

// Execute resolves variable references in the comparison value, evaluates the
// operator against the input, and activates exactly one output handle. The
// input value is passed through on the active handle so downstream nodes can
// keep consuming it.
func (n *ConditionalNode) Execute(_ context.Context, state *models.ExecutionContext, input models.NodeInput) (map[string]models.NodeResult, error) {
	left := resolver.Stringify(input.Primary)
	right := resolver.Render(n.value, resolver.ScopeFromExecution(state, input.Primary))

	matched, err := n.evaluate(left, right)
	if err != nil {
		return nil, err
	}

	handle := models.HandleFalse
	if matched {
		handle = models.HandleTrue
	}

	return map[string]models.NodeResult{
		handle: {
			NodeID:    n.id,
			Data:      input.Primary,
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}

func (n *ConditionalNode) evaluate(left, right string) (bool, error) {
	switch n.operator {
	case OpEquals:
		return left == right, nil
	case OpNotEquals:
		return left != right, nil
	case OpContains:
		return strings.Contains(left, right), nil
	case OpGreater, OpLess:
		leftNum, err := strconv.ParseFloat(strings.TrimSpace(left), 64)
		if err != nil {
			return false, fmt.Errorf("input %q is not numeric: %w", left, err)
		}

		rightNum, err := strconv.ParseFloat(strings.TrimSpace(right), 64)
		if err != nil {
			return false, fmt.Errorf("comparison value %q is not numeric: %w", right, err)
		}

		if n.operator == OpGreater {
			return leftNum > rightNum, nil
		}

		return leftNum < rightNum, nil
	case OpRegex:
		return n.pattern.MatchString(left), nil
	default:
		return false, fmt.Errorf("unknown operator %q", n.operator)
	}
}
