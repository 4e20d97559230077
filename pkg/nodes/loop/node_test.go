package loop

import (
	"testing"

	"github.com/kohai-io/flowrun/pkg/models"
)

func TestNewLoopNode_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
	}{
		{
			name:   "missing mode",
			config: map[string]any{},
		},
		{
			name:   "unknown mode",
			config: map[string]any{"mode": "forever"},
		},
		{
			name:   "count mode without count",
			config: map[string]any{"mode": "count"},
		},
		{
			name:   "count mode with zero count",
			config: map[string]any{"mode": "count", "count": float64(0)},
		},
		{
			name:   "array mode without items",
			config: map[string]any{"mode": "array"},
		},
		{
			name:   "until mode without break_when",
			config: map[string]any{"mode": "until"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewLoopNode("test-loop", tc.config); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}

func TestLoopNode_Iterations_Count(t *testing.T) {
	node, err := NewLoopNode("test-loop", map[string]any{
		"mode":  "count",
		"count": float64(3),
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	state := models.NewExecutionContext("test-exec", "test-flow")

	values, err := node.Iterations(state, models.NodeInput{})
	if err != nil {
		t.Fatalf("Iterations failed: %v", err)
	}

	if len(values) != 3 {
		t.Fatalf("Expected 3 iterations, got %d", len(values))
	}

	// Count mode iterates over indices.
	if values[0] != 0 || values[2] != 2 {
		t.Errorf("Expected index values, got: %v", values)
	}
}

func TestLoopNode_Iterations_Array(t *testing.T) {
	node, err := NewLoopNode("test-loop", map[string]any{
		"mode":  "array",
		"items": "{{source.output}}",
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	state := models.NewExecutionContext("test-exec", "test-flow")
	state.NodeResults["source"] = []any{"a", "b", "c"}

	values, err := node.Iterations(state, models.NodeInput{})
	if err != nil {
		t.Fatalf("Iterations failed: %v", err)
	}

	if len(values) != 3 || values[1] != "b" {
		t.Errorf("Expected resolved array elements, got: %v", values)
	}
}

func TestLoopNode_Iterations_ArrayNotAnArray(t *testing.T) {
	node, err := NewLoopNode("test-loop", map[string]any{
		"mode":  "array",
		"items": "{{source.output}}",
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	state := models.NewExecutionContext("test-exec", "test-flow")
	state.NodeResults["source"] = "scalar"

	if _, err := node.Iterations(state, models.NodeInput{}); err == nil {
		t.Fatal("Expected error when items resolve to a non-array")
	}
}

func TestLoopNode_Iterations_UntilReturnsNil(t *testing.T) {
	node, err := NewLoopNode("test-loop", map[string]any{
		"mode":       "until",
		"break_when": "{{check.output}}",
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	state := models.NewExecutionContext("test-exec", "test-flow")

	values, err := node.Iterations(state, models.NodeInput{})
	if err != nil {
		t.Fatalf("Iterations failed: %v", err)
	}

	if values != nil {
		t.Errorf("Until mode plans no values up front, got: %v", values)
	}
}

func TestLoopNode_MaxIterations(t *testing.T) {
	node, err := NewLoopNode("test-loop", map[string]any{
		"mode":       "until",
		"break_when": "{{check.output}}",
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	if node.MaxIterations() != DefaultMaxIterations {
		t.Errorf("Expected default cap %d, got %d", DefaultMaxIterations, node.MaxIterations())
	}

	node, err = NewLoopNode("test-loop", map[string]any{
		"mode":           "until",
		"break_when":     "{{check.output}}",
		"max_iterations": float64(7),
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	if node.MaxIterations() != 7 {
		t.Errorf("Expected configured cap 7, got %d", node.MaxIterations())
	}
}

func TestLoopNode_ShouldBreak(t *testing.T) {
	tests := []struct {
		name     string
		resolved any
		expected bool
	}{
		{name: "true string breaks", resolved: "true", expected: true},
		{name: "false string continues", resolved: "false", expected: false},
		{name: "non-zero number breaks", resolved: float64(3), expected: true},
		{name: "zero continues", resolved: float64(0), expected: false},
		{name: "non-empty string breaks", resolved: "done", expected: true},
		{name: "unresolved continues", resolved: nil, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			node, err := NewLoopNode("test-loop", map[string]any{
				"mode":       "until",
				"break_when": "{{check.output}}",
			})
			if err != nil {
				t.Fatalf("Failed to create node: %v", err)
			}

			state := models.NewExecutionContext("test-exec", "test-flow")
			if tc.resolved != nil {
				state.NodeResults["check"] = tc.resolved
			}

			stop, err := node.ShouldBreak(state)
			if err != nil {
				t.Fatalf("ShouldBreak failed: %v", err)
			}

			if stop != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, stop)
			}
		})
	}
}

func TestLoopNode_ShouldBreak_OtherModesNeverBreak(t *testing.T) {
	node, err := NewLoopNode("test-loop", map[string]any{
		"mode":  "count",
		"count": float64(2),
	})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}

	state := models.NewExecutionContext("test-exec", "test-flow")

	stop, err := node.ShouldBreak(state)
	if err != nil {
		t.Fatalf("ShouldBreak failed: %v", err)
	}

	if stop {
		t.Error("Count mode must never break early")
	}
}
