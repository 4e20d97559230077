package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kohai-io/flowrun/pkg/models"
)

func TestRender_InputReference(t *testing.T) {
	scope := Scope{Input: "Hello"}

	assert.Equal(t, "Hello", Render("{{input}}", scope))
	assert.Equal(t, "say Hello twice", Render("say {{input}} twice", scope))
}

func TestRender_NodeResultPaths(t *testing.T) {
	scope := Scope{
		Results: map[string]any{
			"search-1": map[string]any{
				"items": []any{
					map[string]any{"title": "first"},
					map[string]any{"title": "second"},
				},
			},
			"model-1": "an answer",
		},
	}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "whole output",
			template: "{{model-1.output}}",
			expected: "an answer",
		},
		{
			name:     "nested path with bracket index",
			template: "{{search-1.output.items[1].title}}",
			expected: "second",
		},
		{
			name:     "nested path with dotted index",
			template: "{{search-1.output.items.0.title}}",
			expected: "first",
		},
		{
			name:     "quoted bracket key",
			template: `{{search-1.output["items"][0].title}}`,
			expected: "first",
		},
		{
			name:     "mixed literal and expression",
			template: "answer: {{model-1.output}}!",
			expected: "answer: an answer!",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.template, scope))
		})
	}
}

func TestRender_UnresolvedIsEmpty(t *testing.T) {
	scope := Scope{Results: map[string]any{"a": "x"}}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "unknown node",
			template: "[{{missing.output}}]",
			expected: "[]",
		},
		{
			name:     "unknown sub-path",
			template: "[{{a.output.deep.path}}]",
			expected: "[]",
		},
		{
			name:     "index out of range",
			template: "[{{a.output[4]}}]",
			expected: "[]",
		},
		{
			name:     "malformed expression",
			template: "[{{a.output[}}]",
			expected: "[]",
		},
		{
			name:     "empty expression",
			template: "[{{}}]",
			expected: "[]",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.template, scope))
		})
	}
}

func TestRender_LoopScope(t *testing.T) {
	scope := Scope{
		Loop: &models.LoopIteration{
			Iteration: 2,
			Value:     map[string]any{"name": "ada"},
		},
	}

	assert.Equal(t, "2", Render("{{loop.output.iteration}}", scope))
	assert.Equal(t, "ada", Render("{{loop.output.value.name}}", scope))
}

func TestRender_NoLoopScope(t *testing.T) {
	assert.Equal(t, "", Render("{{loop.output.value}}", Scope{}))
}

func TestTemplate_Value_KeepsType(t *testing.T) {
	scope := Scope{
		Results: map[string]any{
			"list-1": []any{"a", "b"},
			"num-1":  float64(3),
		},
	}

	value := Parse("{{list-1.output}}").Value(scope)
	require.IsType(t, []any{}, value)
	assert.Len(t, value, 2)

	assert.Equal(t, float64(3), Parse("{{num-1.output}}").Value(scope))

	// Mixed templates fall back to string rendering.
	assert.Equal(t, "n=3", Parse("n={{num-1.output}}").Value(scope))

	// Unresolvable single expressions yield nil.
	assert.Nil(t, Parse("{{missing.output}}").Value(scope))
}

func TestScopeFromExecution(t *testing.T) {
	state := models.NewExecutionContext("test-exec", "test-flow")
	state.NodeResults["a"] = "x"
	state.Loop = &models.LoopIteration{Iteration: 0, Value: "v"}

	scope := ScopeFromExecution(state, "primary")

	assert.Equal(t, "primary", Render("{{input}}", scope))
	assert.Equal(t, "x", Render("{{a.output}}", scope))
	assert.Equal(t, "v", Render("{{loop.output.value}}", scope))
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: ""},
		{name: "string", value: "s", expected: "s"},
		{name: "bool", value: true, expected: "true"},
		{name: "int", value: 42, expected: "42"},
		{name: "float drops trailing zeros", value: float64(2.5), expected: "2.5"},
		{name: "whole float has no decimal point", value: float64(3), expected: "3"},
		{name: "map encodes as JSON", value: map[string]any{"a": 1}, expected: `{"a":1}`},
		{name: "slice encodes as JSON", value: []any{"a", 1}, expected: `["a",1]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Stringify(tc.value))
		})
	}
}

func TestParsePath_Errors(t *testing.T) {
	invalid := []string{
		"",
		"  ",
		".leading",
		"trailing.",
		"unterminated[0",
		"bad[key]",
		`unclosed["key]`,
	}

	for _, raw := range invalid {
		t.Run(raw, func(t *testing.T) {
			_, err := ParsePath(raw)
			require.Error(t, err)
		})
	}
}
