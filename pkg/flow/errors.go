package flow

import "errors"

// Configuration errors returned by Execute before any node runs.
var (
	ErrMissingInputNode  = errors.New("flow must contain at least one input node")
	ErrMissingOutputNode = errors.New("flow must contain at least one output node")
	ErrCyclicFlow        = errors.New("flow graph contains a cycle")
)

// errCancelled propagates cooperative cancellation out of the scheduling
// loop. It never escapes Execute; cancellation surfaces as a result status.
var errCancelled = errors.New("execution cancelled")
