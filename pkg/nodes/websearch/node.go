// Package websearch provides the web search node for flow graph execution.
// A URL-shaped resolved query is scraped directly; anything else goes through
// the search capability.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
	"github.com/kohai-io/flowrun/pkg/resolver"
)

// WebSearchNode searches the web or scrapes a single page.
type WebSearchNode struct {
	id         string
	query      string
	maxResults int
	searcher   protocol.WebSearcher
	scraper    protocol.URLScraper
}

// NewWebSearchNode creates a new web search node.
func NewWebSearchNode(id string, config map[string]any, searcher protocol.WebSearcher, scraper protocol.URLScraper) (*WebSearchNode, error) {
	query, ok := config["query"].(string)
	if !ok {
		return nil, errors.New("missing required field 'query'")
	}

	maxResults := 5
	if raw, ok := config["max_results"].(float64); ok && raw > 0 {
		maxResults = int(raw)
	}

	return &WebSearchNode{
		id:         id,
		query:      query,
		maxResults: maxResults,
		searcher:   searcher,
		scraper:    scraper,
	}, nil
}

// ID returns the node ID.
func (n *WebSearchNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *WebSearchNode) Type() models.NodeType {
	return models.NodeTypeWebSearch
}

// Execute resolves the query, dispatches to scrape or search, and stores the
// result records bounded by max_results.
func (n *WebSearchNode) Execute(ctx context.Context, state *models.ExecutionContext, input models.NodeInput) (map[string]models.NodeResult, error) {
	query := strings.TrimSpace(resolver.Render(n.query, resolver.ScopeFromExecution(state, input.Primary)))

	var (
		results []protocol.SearchResult
		err     error
	)

	if isURL(query) {
		if n.scraper == nil {
			return nil, errors.New("scrape capability not configured")
		}

		var page protocol.SearchResult

		page, err = n.scraper.ScrapeURL(ctx, query)
		if err == nil {
			results = []protocol.SearchResult{page}
		}
	} else {
		if n.searcher == nil {
			return nil, errors.New("search capability not configured")
		}

		results, err = n.searcher.SearchWeb(ctx, query, n.maxResults)
	}

	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	if len(results) > n.maxResults {
		results = results[:n.maxResults]
	}

	data := make([]any, 0, len(results))
	for _, r := range results {
		data = append(data, map[string]any{
			"title":   r.Title,
			"url":     r.URL,
			"content": r.Content,
			"snippet": r.Snippet,
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

func isURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}

	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
