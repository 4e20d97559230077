// Package registry provides node factory registration for the registry system.
package registry

import (
	"github.com/kohai-io/flowrun/pkg/nodes/conditional"
	"github.com/kohai-io/flowrun/pkg/nodes/input"
	"github.com/kohai-io/flowrun/pkg/nodes/knowledge"
	"github.com/kohai-io/flowrun/pkg/nodes/loop"
	"github.com/kohai-io/flowrun/pkg/nodes/merge"
	"github.com/kohai-io/flowrun/pkg/nodes/model"
	"github.com/kohai-io/flowrun/pkg/nodes/output"
	"github.com/kohai-io/flowrun/pkg/nodes/transform"
	"github.com/kohai-io/flowrun/pkg/nodes/websearch"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes() {
	r.Register(input.NewInputNodeFactory())
	r.Register(model.NewModelNodeFactory())
	r.Register(knowledge.NewKnowledgeNodeFactory())
	r.Register(websearch.NewWebSearchNodeFactory())
	r.Register(transform.NewTransformNodeFactory())
	r.Register(conditional.NewConditionalNodeFactory())
	r.Register(loop.NewLoopNodeFactory())
	r.Register(merge.NewMergeNodeFactory())
	r.Register(output.NewOutputNodeFactory())
}
