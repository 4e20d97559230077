package models

import "time"

// LoopIteration describes the current iteration while a loop's "each"
// subgraph is running. Value is the element for array-mode loops and the
// iteration index for count and until modes.
type LoopIteration struct {
	Iteration int `json:"iteration"`
	Value     any `json:"value"`
}

// ExecutionContext holds the per-run state of one flow execution. It is
// created when a run starts, exclusively owned and mutated by the executor,
// and discarded when the run ends. Node handlers receive read access to it
// for variable resolution.
type ExecutionContext struct {
	ID          string            `json:"id"`
	FlowID      string            `json:"flow_id"`
	NodeResults map[string]any    `json:"node_results"`
	NodeErrors  map[string]string `json:"node_errors"`
	Loop        *LoopIteration    `json:"loop,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
}

// NewExecutionContext creates a fresh context for a single run.
func NewExecutionContext(id, flowID string) *ExecutionContext {
	return &ExecutionContext{
		ID:          id,
		FlowID:      flowID,
		NodeResults: make(map[string]any),
		NodeErrors:  make(map[string]string),
		StartedAt:   time.Now().UTC(),
	}
}

// ExecutionStatus is the terminal status of a whole run.
type ExecutionStatus string

const (
	ExecutionStatusSuccess   ExecutionStatus = "success"
	ExecutionStatusError     ExecutionStatus = "error"
	ExecutionStatusPartial   ExecutionStatus = "partial"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// FlowExecutionResult is the value object returned to the caller when a run
// ends. Ownership transfers fully to the caller; the maps are snapshots.
type FlowExecutionResult struct {
	ExecutionID string            `json:"execution_id"`
	FlowID      string            `json:"flow_id"`
	Status      ExecutionStatus   `json:"status"`
	NodeResults map[string]any    `json:"node_results"`
	NodeErrors  map[string]string `json:"node_errors"`
	Duration    time.Duration     `json:"duration"`
	CompletedAt time.Time         `json:"completed_at"`
}
