package transform

import (
	"context"
	"testing"

	"github.com/kohai-io/flowrun/pkg/models"
)

func TestTransformNode_Execute_Operations(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]any
		input    any
		expected any
	}{
		{
			name:     "uppercase",
			config:   map[string]any{"operation": "uppercase"},
			input:    "Hello",
			expected: "HELLO",
		},
		{
			name:     "lowercase",
			config:   map[string]any{"operation": "lowercase"},
			input:    "HeLLo",
			expected: "hello",
		},
		{
			name:     "trim",
			config:   map[string]any{"operation": "trim"},
			input:    "  padded  ",
			expected: "padded",
		},
		{
			name: "regex_replace",
			config: map[string]any{
				"operation":   "regex_replace",
				"pattern":     `\d+`,
				"replacement": "N",
			},
			input:    "order 42 of 7",
			expected: "order N of N",
		},
		{
			name: "json_extract from string",
			config: map[string]any{
				"operation": "json_extract",
				"path":      "user.name",
			},
			input:    `{"user": {"name": "ada"}}`,
			expected: "ada",
		},
		{
			name: "json_extract from structured input",
			config: map[string]any{
				"operation": "json_extract",
				"path":      "items[1]",
			},
			input:    map[string]any{"items": []any{"a", "b"}},
			expected: "b",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			node, err := NewTransformNode("test-transform", tc.config)
			if err != nil {
				t.Fatalf("Failed to create node: %v", err)
			}

			state := models.NewExecutionContext("test-exec", "test-flow")

			results, err := node.Execute(context.Background(), state, models.NodeInput{Primary: tc.input})
			if err != nil {
				t.Fatalf("Node execution failed: %v", err)
			}

			result, ok := results[models.HandleMain]
			if !ok {
				t.Fatal("Expected main output handle to be activated")
			}

			if result.Data != tc.expected {
				t.Errorf("Expected %v, got: %v", tc.expected, result.Data)
			}
		})
	}
}

func TestTransformNode_Execute_Template(t *testing.T) {
	node, err := NewTransformNode("test-transform", map[string]any{
		"operation": "template",
		"template":  "value is {{input}} from {{source.output}}",
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	state := models.NewExecutionContext("test-exec", "test-flow")
	state.NodeResults["source"] = "upstream"

	results, err := node.Execute(context.Background(), state, models.NodeInput{Primary: "X"})
	if err != nil {
		t.Fatalf("Node execution failed: %v", err)
	}

	if results[models.HandleMain].Data != "value is X from upstream" {
		t.Errorf("Unexpected template result: %v", results[models.HandleMain].Data)
	}
}

func TestTransformNode_Execute_JSONExtractInvalidInput(t *testing.T) {
	node, err := NewTransformNode("test-transform", map[string]any{
		"operation": "json_extract",
		"path":      "a.b",
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	state := models.NewExecutionContext("test-exec", "test-flow")

	_, err = node.Execute(context.Background(), state, models.NodeInput{Primary: "not json"})
	if err == nil {
		t.Fatal("Expected error for non-JSON input")
	}
}

func TestNewTransformNode_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
	}{
		{
			name:   "missing operation",
			config: map[string]any{},
		},
		{
			name:   "unknown operation",
			config: map[string]any{"operation": "reverse"},
		},
		{
			name:   "regex_replace without pattern",
			config: map[string]any{"operation": "regex_replace"},
		},
		{
			name: "regex_replace with invalid pattern",
			config: map[string]any{
				"operation": "regex_replace",
				"pattern":   "([unclosed",
			},
		},
		{
			name:   "json_extract without path",
			config: map[string]any{"operation": "json_extract"},
		},
		{
			name:   "template without template",
			config: map[string]any{"operation": "template"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTransformNode("test-transform", tc.config); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}
