package protocol

import (
	"context"

	"github.com/kohai-io/flowrun/pkg/models"
)

// Node is a single executable node handler. Execute receives read access to
// the shared execution context for variable resolution plus the inputs routed
// to it, and returns its results keyed by output handle. The set of returned
// handles determines which outgoing edges are live: a conditional returns
// exactly one of "true"/"false", everything else returns "main". Handlers
// report their own failures through the error return; they never mutate the
// execution context.
type Node interface {
	ID() string
	Type() models.NodeType
	Execute(ctx context.Context, state *models.ExecutionContext, input models.NodeInput) (map[string]models.NodeResult, error)
}

// NodeFactory creates node handler instances and provides metadata about the
// node type.
type NodeFactory interface {
	// Create builds a handler for one node instance from its configuration.
	Create(id string, config map[string]any, caps Capabilities) (Node, error)

	// Type returns the node type this factory produces.
	Type() models.NodeType

	// Name returns the human-readable name for this node type.
	Name() string

	// Description returns a description of what this node does.
	Description() string

	// Schema returns the JSON schema for configuring this node type.
	Schema() map[string]any
}

// LoopController is implemented by loop node handlers. The executor drives
// the per-iteration subgraph itself; the controller only supplies the
// iteration plan and the break condition.
type LoopController interface {
	Node

	// Iterations returns the resolved iteration values for count and array
	// modes, or nil for until mode (which iterates up to MaxIterations,
	// checking ShouldBreak after each pass).
	Iterations(state *models.ExecutionContext, input models.NodeInput) ([]any, error)

	// MaxIterations is the safety cap applied to every mode.
	MaxIterations() int

	// ShouldBreak reports whether an until-mode loop is done. It is evaluated
	// after each iteration, against the results that iteration produced.
	ShouldBreak(state *models.ExecutionContext) (bool, error)
}

// OutputAccumulator is implemented by output node handlers: when fed
// repeatedly from a loop's "each" handle they accumulate one rendered entry
// per iteration instead of overwriting.
type OutputAccumulator interface {
	Accumulate(entries []any) any
}
