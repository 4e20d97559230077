package registry

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

func newTestRegistry() *Registry {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := NewRegistry(logger)
	reg.RegisterDefaultNodes()

	return reg
}

func TestRegistry_RegisterDefaultNodes(t *testing.T) {
	reg := newTestRegistry()

	assert.Len(t, reg.Types(), 9)
}

func TestRegistry_Create(t *testing.T) {
	reg := newTestRegistry()

	node := &models.FlowNode{
		ID:     "tr-1",
		Type:   models.NodeTypeTransform,
		Config: map[string]any{"operation": "uppercase"},
	}

	handler, err := reg.Create(node, protocol.Capabilities{})
	require.NoError(t, err)

	assert.Equal(t, "tr-1", handler.ID())
	assert.Equal(t, models.NodeTypeTransform, handler.Type())
}

func TestRegistry_Create_UnknownType(t *testing.T) {
	reg := newTestRegistry()

	node := &models.FlowNode{ID: "x", Type: "teleport"}

	_, err := reg.Create(node, protocol.Capabilities{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestRegistry_Create_SchemaRejectsInvalidConfig(t *testing.T) {
	reg := newTestRegistry()

	node := &models.FlowNode{
		ID:     "tr-1",
		Type:   models.NodeTypeTransform,
		Config: map[string]any{"operation": "explode"},
	}

	_, err := reg.Create(node, protocol.Capabilities{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRegistry_Create_SchemaRejectsMissingRequiredField(t *testing.T) {
	reg := newTestRegistry()

	node := &models.FlowNode{
		ID:     "loop-1",
		Type:   models.NodeTypeLoop,
		Config: map[string]any{},
	}

	_, err := reg.Create(node, protocol.Capabilities{})
	require.Error(t, err)
}

func TestRegistry_ValidateNode(t *testing.T) {
	reg := newTestRegistry()

	valid := &models.FlowNode{
		ID:     "m-1",
		Type:   models.NodeTypeMerge,
		Config: map[string]any{"strategy": "concat"},
	}
	require.NoError(t, reg.ValidateNode(valid))

	invalid := &models.FlowNode{
		ID:     "c-1",
		Type:   models.NodeTypeConditional,
		Config: map[string]any{"operator": "between"},
	}
	require.Error(t, reg.ValidateNode(invalid))
}

func TestRegistry_Create_NilConfig(t *testing.T) {
	reg := newTestRegistry()

	node := &models.FlowNode{ID: "in-1", Type: models.NodeTypeInput}

	handler, err := reg.Create(node, protocol.Capabilities{})
	require.NoError(t, err)
	assert.NotNil(t, handler)
}
