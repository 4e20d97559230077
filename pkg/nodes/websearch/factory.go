package websearch

import (
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

// WebSearchNodeFactory creates web search node instances.
type WebSearchNodeFactory struct{}

// NewWebSearchNodeFactory creates a factory for web search nodes.
func NewWebSearchNodeFactory() *WebSearchNodeFactory {
	return &WebSearchNodeFactory{}
}

// Create creates a new web search node bound to the search and scrape capabilities.
func (f *WebSearchNodeFactory) Create(id string, config map[string]any, caps protocol.Capabilities) (protocol.Node, error) {
	return NewWebSearchNode(id, config, caps.Search, caps.Scraper)
}

// Type returns the node type.
func (f *WebSearchNodeFactory) Type() models.NodeType {
	return models.NodeTypeWebSearch
}

// Name returns the human-readable name.
func (f *WebSearchNodeFactory) Name() string {
	return "Web Search"
}

// Description describes the node type.
func (f *WebSearchNodeFactory) Description() string {
	return "Searches the web for a resolved query, or scrapes the page when the query is a URL"
}

// Schema returns the JSON schema for web search node configuration.
func (f *WebSearchNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"query"},
		"properties": map[string]any{
			"query":       map[string]any{"type": "string", "description": "Search query or URL; may contain {{path}} references"},
			"max_results": map[string]any{"type": "number", "minimum": 1},
		},
	}
}
