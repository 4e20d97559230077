package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kohai-io/flowrun/pkg/mocks"
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/protocol"
)

func TestModelNode_Execute_ResolvesPrompt(t *testing.T) {
	invoker := new(mocks.MockModelInvoker)
	invoker.On("InvokeModel",
		context.Background(),
		"claude-sonnet",
		"Summarize: some text",
		protocol.GenerationParams{Temperature: 0.7, MaxTokens: 1024, TopP: 1.0},
	).Return("a summary", nil)

	node, err := NewModelNode("test-model", map[string]any{
		"model_id": "claude-sonnet",
		"prompt":   "Summarize: {{input}}",
	}, invoker)
	require.NoError(t, err)

	state := models.NewExecutionContext("test-exec", "test-flow")

	results, err := node.Execute(context.Background(), state, models.NodeInput{Primary: "some text"})
	require.NoError(t, err)

	assert.Equal(t, "a summary", results[models.HandleMain].Data)
	invoker.AssertExpectations(t)
}

func TestModelNode_Execute_CustomParams(t *testing.T) {
	invoker := new(mocks.MockModelInvoker)
	invoker.On("InvokeModel",
		context.Background(),
		"claude-haiku",
		"hi",
		protocol.GenerationParams{Temperature: 0.2, MaxTokens: 64, TopP: 0.9},
	).Return("hello", nil)

	node, err := NewModelNode("test-model", map[string]any{
		"model_id":    "claude-haiku",
		"prompt":      "hi",
		"temperature": 0.2,
		"max_tokens":  float64(64),
		"top_p":       0.9,
	}, invoker)
	require.NoError(t, err)

	state := models.NewExecutionContext("test-exec", "test-flow")

	_, err = node.Execute(context.Background(), state, models.NodeInput{})
	require.NoError(t, err)

	invoker.AssertExpectations(t)
}

func TestModelNode_Execute_InvokerFailure(t *testing.T) {
	invoker := new(mocks.MockModelInvoker)
	invoker.On("InvokeModel",
		context.Background(),
		"claude-sonnet",
		"prompt",
		protocol.GenerationParams{Temperature: 0.7, MaxTokens: 1024, TopP: 1.0},
	).Return("", errors.New("rate limited"))

	node, err := NewModelNode("test-model", map[string]any{
		"model_id": "claude-sonnet",
		"prompt":   "prompt",
	}, invoker)
	require.NoError(t, err)

	state := models.NewExecutionContext("test-exec", "test-flow")

	_, err = node.Execute(context.Background(), state, models.NodeInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestModelNode_Execute_MissingCapability(t *testing.T) {
	node, err := NewModelNode("test-model", map[string]any{
		"model_id": "claude-sonnet",
		"prompt":   "prompt",
	}, nil)
	require.NoError(t, err)

	state := models.NewExecutionContext("test-exec", "test-flow")

	_, err = node.Execute(context.Background(), state, models.NodeInput{})
	require.Error(t, err)
}

func TestNewModelNode_Validation(t *testing.T) {
	_, err := NewModelNode("test-model", map[string]any{"prompt": "p"}, nil)
	assert.Error(t, err)

	_, err = NewModelNode("test-model", map[string]any{"model_id": "m"}, nil)
	assert.Error(t, err)
}
