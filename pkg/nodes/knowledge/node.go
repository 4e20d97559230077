// Package knowledge provides the retrieval node for flow graph execution.
// The node resolves its query and delegates to an externally supplied
// KnowledgeQuerier capability.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
	"github.com/kohai-io/flowrun/pkg/resolver"
)

// KnowledgeNode queries an external knowledge base.
type KnowledgeNode struct {
	id              string
	knowledgeBaseID string
	query           string
	opts            protocol.KnowledgeOptions
	querier         protocol.KnowledgeQuerier
}

// NewKnowledgeNode creates a new knowledge retrieval node.
func NewKnowledgeNode(id string, config map[string]any, querier protocol.KnowledgeQuerier) (*KnowledgeNode, error) {
	knowledgeBaseID, ok := config["knowledge_base_id"].(string)
	if !ok {
		return nil, errors.New("missing required field 'knowledge_base_id'")
	}

	query, ok := config["query"].(string)
	if !ok {
		return nil, errors.New("missing required field 'query'")
	}

	opts := protocol.KnowledgeOptions{TopK: 5, Threshold: 0.0}

	if topK, ok := config["top_k"].(float64); ok {
		opts.TopK = int(topK)
	}

	if threshold, ok := config["threshold"].(float64); ok {
		opts.Threshold = threshold
	}

	if rerank, ok := config["rerank"].(bool); ok {
		opts.Rerank = rerank
	}

	if hybrid, ok := config["hybrid"].(bool); ok {
		opts.Hybrid = hybrid
	}

	return &KnowledgeNode{
		id:              id,
		knowledgeBaseID: knowledgeBaseID,
		query:           query,
		opts:            opts,
		querier:         querier,
	}, nil
}

// ID returns the node ID.
func (n *KnowledgeNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *KnowledgeNode) Type() models.NodeType {
	return models.NodeTypeKnowledge
}

// Execute resolves the query and retrieves chunks from the knowledge base.
// The chunk list is stored as a generic tree so downstream variable paths
// can traverse it.
func (n *KnowledgeNode) Execute(ctx context.Context, state *models.ExecutionContext, input models.NodeInput) (map[string]models.NodeResult, error) {
	if n.querier == nil {
		return nil, errors.New("knowledge capability not configured")
	}

	query := resolver.Render(n.query, resolver.ScopeFromExecution(state, input.Primary))

	chunks, err := n.querier.QueryKnowledge(ctx, n.knowledgeBaseID, query, n.opts)
	if err != nil {
		return nil, fmt.Errorf("knowledge query failed: %w", err)
	}

	data := make([]any, 0, len(chunks))
	for _, chunk := range chunks {
		data = append(data, map[string]any{
			"content":  chunk.Content,
			"score":    chunk.Score,
			"metadata": chunk.Metadata,
		})
	}

	return map[string]models.NodeResult{
		models.HandleMain: {
			NodeID:    n.id,
			Data:      data,
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}
