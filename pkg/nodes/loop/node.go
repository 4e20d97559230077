// Package loop provides the iteration node for flow graph execution. The
// executor drives the per-iteration subgraph; this package supplies the
// iteration plan (fixed count, array, or until-condition) and the break
// check.
package loop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/resolver"
)

// Iteration strategies.
const (
	ModeCount = "count"
	ModeArray = "array"
	ModeUntil = "until"
)

// DefaultMaxIterations caps every loop mode unless configured otherwise.
const DefaultMaxIterations = 100

// LoopNode describes one loop's iteration strategy.
type LoopNode struct {
	id            string
	mode          string
	count         int
	items         string
	breakWhen     string
	maxIterations int
}

// NewLoopNode creates a new loop node.
func NewLoopNode(id string, config map[string]any) (*LoopNode, error) {
	mode, ok := config["mode"].(string)
	if !ok {
		return nil, errors.New("missing required field 'mode'")
	}

	node := &LoopNode{id: id, mode: mode, maxIterations: DefaultMaxIterations}

	if raw, ok := config["max_iterations"].(float64); ok && raw > 0 {
		node.maxIterations = int(raw)
	}

	switch mode {
	case ModeCount:
		raw, ok := config["count"].(float64)
		if !ok || raw < 1 {
			return nil, errors.New("count mode requires a positive 'count'")
		}

		node.count = int(raw)
	case ModeArray:
		items, ok := config["items"].(string)
		if !ok {
			return nil, errors.New("array mode requires field 'items'")
		}

		node.items = items
	case ModeUntil:
		breakWhen, ok := config["break_when"].(string)
		if !ok {
			return nil, errors.New("until mode requires field 'break_when'")
		}

		node.breakWhen = breakWhen
	default:
		return nil, fmt.Errorf("unknown loop mode %q", mode)
	}

	return node, nil
}

// ID returns the node ID.
func (n *LoopNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *LoopNode) Type() models.NodeType {
	return models.NodeTypeLoop
}

// Execute is never dispatched directly; the executor detects the
// LoopController interface and drives the iteration subgraph itself.
func (n *LoopNode) Execute(_ context.Context, _ *models.ExecutionContext, _ models.NodeInput) (map[string]models.NodeResult, error) {
	return nil, errors.New("loop nodes are driven by the executor")
}

// Iterations returns the planned iteration values. Count mode yields the
// iteration indices; array mode resolves the items expression, which must
// produce an array; until mode returns nil and relies on ShouldBreak.
func (n *LoopNode) Iterations(state *models.ExecutionContext, input models.NodeInput) ([]any, error) {
	switch n.mode {
	case ModeCount:
		values := make([]any, n.count)
		for i := range values {
			values[i] = i
		}

		return values, nil
	case ModeArray:
		resolved := resolver.Parse(n.items).Value(resolver.ScopeFromExecution(state, input.Primary))

		items, ok := resolved.([]any)
		if !ok {
			return nil, fmt.Errorf("loop items %q did not resolve to an array (got %T)", n.items, resolved)
		}

		return items, nil
	default:
		return nil, nil
	}
}

// MaxIterations returns the safety cap.
func (n *LoopNode) MaxIterations() int {
	return n.maxIterations
}

// ShouldBreak resolves the break condition against the current iteration's
// results and reports whether the loop is done. Only meaningful in until
// mode; other modes never break early.
func (n *LoopNode) ShouldBreak(state *models.ExecutionContext) (bool, error) {
	if n.mode != ModeUntil {
		return false, nil
	}

	resolved := strings.TrimSpace(resolver.Render(n.breakWhen, resolver.ScopeFromExecution(state, nil)))

	return truthy(resolved), nil
}

// truthy interprets a resolved condition string: boolean and numeric forms
// are parsed, anything else is true when non-empty.
func truthy(s string) bool {
	if s == "" {
		return false
	}

	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}

	return true
}
