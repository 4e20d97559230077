// Package models defines the core domain models for node-based flow execution.
package models

import (
	"time"
)

// NodeType identifies one of the closed set of node kinds a flow may contain.
type NodeType string

const (
	NodeTypeInput       NodeType = "input"
	NodeTypeModel       NodeType = "model"
	NodeTypeOutput      NodeType = "output"
	NodeTypeTransform   NodeType = "transform"
	NodeTypeConditional NodeType = "conditional"
	NodeTypeLoop        NodeType = "loop"
	NodeTypeMerge       NodeType = "merge"
	NodeTypeKnowledge   NodeType = "knowledge"
	NodeTypeWebSearch   NodeType = "websearch"
)

// NodeStatus defines the transient execution state of a node within one run.
type NodeStatus string

const (
	NodeStatusIdle    NodeStatus = "idle"
	NodeStatusRunning NodeStatus = "running"
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusError   NodeStatus = "error"
)

// Output handle names used for routing between nodes. An edge with an empty
// source handle is routed through HandleMain.
const (
	HandleMain  = "main"
	HandleTrue  = "true"
	HandleFalse = "false"
	HandleEach  = "each"
	HandleDone  = "done"
)

// FlowNode represents a node instance in a flow graph. Status is mutated only
// by the executor during a run and reset to idle when a run starts.
type FlowNode struct {
	ID     string         `json:"id"     validate:"required"`
	Type   NodeType       `json:"type"   validate:"required,oneof=input model output transform conditional loop merge knowledge websearch"`
	Name   string         `json:"name,omitempty"`
	Config map[string]any `json:"config"`
	Status NodeStatus     `json:"status,omitempty"`
}

// NodeResult represents the value a node produced on one of its output handles.
type NodeResult struct {
	NodeID    string    `json:"node_id"`
	Data      any       `json:"data"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// NodeInput carries the predecessor outputs routed into a node for one
// execution step. Primary is the value of the sole (or first live)
// predecessor; Values holds all live predecessor outputs in edge order, which
// merge nodes consume.
type NodeInput struct {
	Primary any
	Values  []any
}
