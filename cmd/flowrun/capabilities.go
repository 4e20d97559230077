package main

import (
	"context"
	"fmt"

	"github.com/kohai-io/flowrun/pkg/protocol"
)

// echoCapabilities returns self-contained capabilities for dry runs: model,
// knowledge and search calls echo their inputs instead of reaching external
// services.
func echoCapabilities() protocol.Capabilities {
	return protocol.Capabilities{
		Model:     echoModel{},
		Knowledge: echoKnowledge{},
		Search:    echoSearch{},
		Scraper:   echoScraper{},
	}
}

type echoModel struct{}

func (echoModel) InvokeModel(_ context.Context, modelID, prompt string, _ protocol.GenerationParams) (string, error) {
	return fmt.Sprintf("[%s] %s", modelID, prompt), nil
}

type echoKnowledge struct{}

func (echoKnowledge) QueryKnowledge(_ context.Context, knowledgeBaseID, query string, _ protocol.KnowledgeOptions) ([]protocol.KnowledgeChunk, error) {
	return []protocol.KnowledgeChunk{
		{
			Content:  query,
			Score:    1.0,
			Metadata: map[string]any{"knowledge_base_id": knowledgeBaseID},
		},
	}, nil
}

type echoSearch struct{}

func (echoSearch) SearchWeb(_ context.Context, query string, maxResults int) ([]protocol.SearchResult, error) {
	results := make([]protocol.SearchResult, 0, maxResults)

	for i := 0; i < maxResults; i++ {
		results = append(results, protocol.SearchResult{
			Title:   fmt.Sprintf("Result %d", i+1),
			URL:     fmt.Sprintf("https://example.com/%d", i+1),
			Snippet: query,
		})
	}

	return results, nil
}

type echoScraper struct{}

func (echoScraper) ScrapeURL(_ context.Context, url string) (protocol.SearchResult, error) {
	return protocol.SearchResult{
		Title:   url,
		URL:     url,
		Content: "",
	}, nil
}
