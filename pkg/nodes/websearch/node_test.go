package websearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kohai-io/flowrun/pkg/mocks"
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

func TestWebSearchNode_Execute_Search(t *testing.T) {
	searcher := new(mocks.MockWebSearcher)
	searcher.On("SearchWeb", context.Background(), "go concurrency", 5).Return([]protocol.SearchResult{
		{Title: "Go blog", URL: "https://go.dev/blog", Snippet: "goroutines"},
	}, nil)

	node, err := NewWebSearchNode("test-search", map[string]any{
		"query": "go concurrency",
	}, searcher, nil)
	require.NoError(t, err)

	state := models.NewExecutionContext("test-exec", "test-flow")

	results, err := node.Execute(context.Background(), state, models.NodeInput{})
	require.NoError(t, err)

	data, ok := results[models.HandleMain].Data.([]any)
	require.True(t, ok)
	require.Len(t, data, 1)

	record, ok := data[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Go blog", record["title"])
	assert.Equal(t, "https://go.dev/blog", record["url"])

	searcher.AssertExpectations(t)
}

func TestWebSearchNode_Execute_URLQueryScrapes(t *testing.T) {
	scraper := new(mocks.MockURLScraper)
	scraper.On("ScrapeURL", context.Background(), "https://example.com/page").Return(protocol.SearchResult{
		Title: "Example",
		URL:   "https://example.com/page",
	}, nil)

	node, err := NewWebSearchNode("test-search", map[string]any{
		"query": "https://example.com/page",
	}, nil, scraper)
	require.NoError(t, err)

	state := models.NewExecutionContext("test-exec", "test-flow")

	results, err := node.Execute(context.Background(), state, models.NodeInput{})
	require.NoError(t, err)

	data, ok := results[models.HandleMain].Data.([]any)
	require.True(t, ok)
	require.Len(t, data, 1)

	scraper.AssertExpectations(t)
}

func TestWebSearchNode_Execute_MaxResultsBound(t *testing.T) {
	searcher := new(mocks.MockWebSearcher)
	searcher.On("SearchWeb", context.Background(), "news", 2).Return([]protocol.SearchResult{
		{Title: "1"}, {Title: "2"}, {Title: "3"},
	}, nil)

	node, err := NewWebSearchNode("test-search", map[string]any{
		"query":       "news",
		"max_results": float64(2),
	}, searcher, nil)
	require.NoError(t, err)

	state := models.NewExecutionContext("test-exec", "test-flow")

	results, err := node.Execute(context.Background(), state, models.NodeInput{})
	require.NoError(t, err)

	data, ok := results[models.HandleMain].Data.([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestWebSearchNode_Execute_MissingCapability(t *testing.T) {
	node, err := NewWebSearchNode("test-search", map[string]any{"query": "anything"}, nil, nil)
	require.NoError(t, err)

	state := models.NewExecutionContext("test-exec", "test-flow")

	_, err = node.Execute(context.Background(), state, models.NodeInput{})
	require.Error(t, err)
}

func TestNewWebSearchNode_MissingQuery(t *testing.T) {
	_, err := NewWebSearchNode("test-search", map[string]any{}, nil, nil)
	assert.Error(t, err)
}
