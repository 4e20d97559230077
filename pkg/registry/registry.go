// Package registry provides node factory registration and configuration
// validation for the flow execution engine.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// Registry maps node types to their factories.
type Registry struct {
	logger    *slog.Logger
	factories map[models.NodeType]protocol.NodeFactory
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[models.NodeType]protocol.NodeFactory),
	}
}

// Register adds a node factory, replacing any previous factory for the type.
func (r *Registry) Register(factory protocol.NodeFactory) {
	r.factories[factory.Type()] = factory

	r.logger.Debug("Registered node factory", "node_type", factory.Type())
}

// Types returns the registered node types.
func (r *Registry) Types() []models.NodeType {
	types := make([]models.NodeType, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}

	return types
}

// Create validates the node's configuration against the factory schema and
// builds a handler instance for it.
func (r *Registry) Create(node *models.FlowNode, caps protocol.Capabilities) (protocol.Node, error) {
	factory, ok := r.factories[node.Type]
	if !ok {
		return nil, fmt.Errorf("node type %q not registered", node.Type)
	}

	if err := r.validateConfig(factory, node); err != nil {
		return nil, err
	}

	config := node.Config
	if config == nil {
		config = make(map[string]any)
	}

	return factory.Create(node.ID, config, caps)
}

// ValidateNode checks a node's configuration without instantiating it.
func (r *Registry) ValidateNode(node *models.FlowNode) error {
	factory, ok := r.factories[node.Type]
	if !ok {
		return fmt.Errorf("node type %q not registered", node.Type)
	}

	return r.validateConfig(factory, node)
}

func (r *Registry) validateConfig(factory protocol.NodeFactory, node *models.FlowNode) error {
	schema := factory.Schema()
	if schema == nil {
		return nil
	}

	config := node.Config
	if config == nil {
		config = make(map[string]any)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("failed to validate config for node %s: %w", node.ID, err)
	}

	if !result.Valid() {
		errs := result.Errors()
		messages := make([]string, 0, len(errs))

		for _, desc := range errs {
			messages = append(messages, desc.String())
		}

		return fmt.Errorf("invalid config for node %s: %v", node.ID, messages)
	}

	return nil
}
