// Package protocol defines the interfaces and contracts between the flow
// executor, the pluggable node handlers, and the external capabilities they
// invoke.
package protocol

import "context"

// GenerationParams carries the tunable parameters of a model invocation.
type GenerationParams struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
}

// KnowledgeOptions configures a retrieval query.
type KnowledgeOptions struct {
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold"`
	Rerank    bool    `json:"rerank"`
	Hybrid    bool    `json:"hybrid"`
}

// KnowledgeChunk is one retrieved passage.
type KnowledgeChunk struct {
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchResult is one web search hit or scraped page.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Snippet string `json:"snippet"`
}

// ModelInvoker runs a prompt against an external model.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, modelID, prompt string, params GenerationParams) (string, error)
}

// KnowledgeQuerier retrieves passages from an external knowledge base.
type KnowledgeQuerier interface {
	QueryKnowledge(ctx context.Context, knowledgeBaseID, query string, opts KnowledgeOptions) ([]KnowledgeChunk, error)
}

// WebSearcher performs a web search.
type WebSearcher interface {
	SearchWeb(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// URLScraper fetches and extracts a single page.
type URLScraper interface {
	ScrapeURL(ctx context.Context, url string) (SearchResult, error)
}

// Capabilities bundles the external collaborators a flow execution may reach.
// Any field may be nil; a node requiring a missing capability fails with a
// node-level error.
type Capabilities struct {
	Model     ModelInvoker
	Knowledge KnowledgeQuerier
	Search    WebSearcher
	Scraper   URLScraper
}
