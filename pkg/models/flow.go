package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// FlowEdge is a directed connection between two nodes. SourceHandle selects
// which output handle of the source node the edge listens on ("true"/"false"
// for conditionals, "each"/"done" for loops); empty means the main output.
type FlowEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"        validate:"required"`
	Target       string `json:"target"        validate:"required"`
	SourceHandle string `json:"source_handle,omitempty"`
	TargetHandle string `json:"target_handle,omitempty"`
}

// Handle returns the effective source handle of the edge.
func (e *FlowEdge) Handle() string {
	if e.SourceHandle == "" {
		return HandleMain
	}

	return e.SourceHandle
}

// Flow is the owning aggregate for a node graph. The executor treats nodes
// and edges as an immutable snapshot for the duration of one run.
type Flow struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"  validate:"required,min=1"`
	Nodes     []*FlowNode `json:"nodes" validate:"dive"`
	Edges     []*FlowEdge `json:"edges" validate:"dive"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural integrity of the flow: field-level
// constraints, unique node IDs and edge endpoints referencing known nodes.
func (f *Flow) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid flow definition: %w", err)
	}

	seen := make(map[string]bool, len(f.Nodes))
	for _, node := range f.Nodes {
		if seen[node.ID] {
			return fmt.Errorf("duplicate node id %q", node.ID)
		}

		seen[node.ID] = true
	}

	for _, edge := range f.Edges {
		if !seen[edge.Source] {
			return fmt.Errorf("edge %s references unknown source node %q", edge.ID, edge.Source)
		}

		if !seen[edge.Target] {
			return fmt.Errorf("edge %s references unknown target node %q", edge.ID, edge.Target)
		}
	}

	return nil
}

// NodeByID returns the node with the given ID, if present.
func (f *Flow) NodeByID(id string) (*FlowNode, bool) {
	for _, node := range f.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return nil, false
}

// CountByType returns how many nodes of the given type the flow contains.
func (f *Flow) CountByType(t NodeType) int {
	count := 0

	for _, node := range f.Nodes {
		if node.Type == t {
			count++
		}
	}

	return count
}
