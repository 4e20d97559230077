// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/google/uuid"

	"github.com/kohai-io/flowrun/pkg/models"
)

// CreateTestNode creates a test FlowNode with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.FlowNode)) *models.FlowNode {
	node := &models.FlowNode{
		ID:     uuid.New().String(),
		Type:   models.NodeTypeTransform,
		Name:   "Test Node",
		Config: map[string]any{"operation": "trim"},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node ID.
func WithID(id string) func(*models.FlowNode) {
	return func(n *models.FlowNode) {
		n.ID = id
	}
}

// WithType sets the node type.
func WithType(nodeType models.NodeType) func(*models.FlowNode) {
	return func(n *models.FlowNode) {
		n.Type = nodeType
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.FlowNode) {
	return func(n *models.FlowNode) {
		n.Name = name
	}
}

// WithConfig sets the node configuration.
func WithConfig(config map[string]any) func(*models.FlowNode) {
	return func(n *models.FlowNode) {
		n.Config = config
	}
}

// InputNode builds an input node emitting the given value.
func InputNode(id string, value any) *models.FlowNode {
	return CreateTestNode(
		WithID(id),
		WithType(models.NodeTypeInput),
		WithConfig(map[string]any{"value": value}),
	)
}

// OutputNode builds an output node with the given template.
func OutputNode(id, template string) *models.FlowNode {
	return CreateTestNode(
		WithID(id),
		WithType(models.NodeTypeOutput),
		WithConfig(map[string]any{"template": template}),
	)
}

// CreateTestFlow creates an empty test flow.
func CreateTestFlow(nodes ...*models.FlowNode) *models.Flow {
	return &models.Flow{
		ID:    uuid.New().String(),
		Name:  "Test Flow",
		Nodes: nodes,
		Edges: []*models.FlowEdge{},
	}
}

// Connect appends an edge from source's main handle to target.
func Connect(flow *models.Flow, source, target string) *models.Flow {
	return ConnectHandle(flow, source, target, "")
}

// ConnectHandle appends an edge listening on a specific source handle.
func ConnectHandle(flow *models.Flow, source, target, handle string) *models.Flow {
	flow.Edges = append(flow.Edges, &models.FlowEdge{
		ID:           uuid.New().String(),
		Source:       source,
		Target:       target,
		SourceHandle: handle,
	})

	return flow
}
