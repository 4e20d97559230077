// Package mocks provides testify mocks for the capability interfaces model,
// knowledge, websearch and output nodes depend on.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kohai-io/flowrun/pkg/protocol"
)

// MockModelInvoker is a mock implementation of protocol.ModelInvoker.
type MockModelInvoker struct {
	mock.Mock
}

func (m *MockModelInvoker) InvokeModel(ctx context.Context, modelID, prompt string, params protocol.GenerationParams) (string, error) {
	args := m.Called(ctx, modelID, prompt, params)

	return args.String(0), args.Error(1)
}

// MockKnowledgeQuerier is a mock implementation of protocol.KnowledgeQuerier.
type MockKnowledgeQuerier struct {
	mock.Mock
}

func (m *MockKnowledgeQuerier) QueryKnowledge(ctx context.Context, knowledgeBaseID, query string, options protocol.KnowledgeOptions) ([]protocol.KnowledgeChunk, error) {
	args := m.Called(ctx, knowledgeBaseID, query, options)

	chunks, _ := args.Get(0).([]protocol.KnowledgeChunk)

	return chunks, args.Error(1)
}

// MockWebSearcher is a mock implementation of protocol.WebSearcher.
type MockWebSearcher struct {
	mock.Mock
}

func (m *MockWebSearcher) SearchWeb(ctx context.Context, query string, maxResults int) ([]protocol.SearchResult, error) {
	args := m.Called(ctx, query, maxResults)

	results, _ := args.Get(0).([]protocol.SearchResult)

	return results, args.Error(1)
}

// MockURLScraper is a mock implementation of protocol.URLScraper.
type MockURLScraper struct {
	mock.Mock
}

func (m *MockURLScraper) ScrapeURL(ctx context.Context, url string) (protocol.SearchResult, error) {
	args := m.Called(ctx, url)

	result, _ := args.Get(0).(protocol.SearchResult)

	return result, args.Error(1)
}
