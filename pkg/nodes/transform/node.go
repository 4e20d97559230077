// Package transform provides the pure text transformation node for flow
// graph execution. Transformations are deterministic and never reach outside
// the process.
package transform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/resolver"
)

// Supported transform operations.
const (
	OpUppercase    = "uppercase"
	OpLowercase    = "lowercase"
	OpTrim         = "trim"
	OpRegexReplace = "regex_replace"
	OpJSONExtract  = "json_extract"
	OpTemplate     = "template"
)

// TransformNode applies one configured operation to its single input.
type TransformNode struct {
	id          string
	operation   string
	pattern     *regexp.Regexp
	replacement string
	path        resolver.Path
	template    string
}

// NewTransformNode creates a new transform node. Operation-specific fields
// (pattern, path, template) are validated and compiled up front.
func NewTransformNode(id string, config map[string]any) (*TransformNode, error) {
	operation, ok := config["operation"].(string)
	if !ok {
		return nil, errors.New("missing required field 'operation'")
	}

	node := &TransformNode{id: id, operation: operation}

	switch operation {
	case OpUppercase, OpLowercase, OpTrim:
	case OpRegexReplace:
		patternStr, ok := config["pattern"].(string)
		if !ok {
			return nil, errors.New("regex_replace requires field 'pattern'")
		}

		pattern, err := regexp.Compile(patternStr)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", patternStr, err)
		}

		node.pattern = pattern
		node.replacement, _ = config["replacement"].(string)
	case OpJSONExtract:
		pathStr, ok := config["path"].(string)
		if !ok {
			return nil, errors.New("json_extract requires field 'path'")
		}

		path, err := resolver.ParsePath(pathStr)
		if err != nil {
			return nil, fmt.Errorf("invalid extraction path %q: %w", pathStr, err)
		}

		node.path = path
	case OpTemplate:
		templateStr, ok := config["template"].(string)
		if !ok {
			return nil, errors.New("template operation requires field 'template'")
		}

		node.template = templateStr
	default:
		return nil, fmt.Errorf("unknown transform operation %q", operation)
	}

	return node, nil
}

// ID returns the node ID.
func (n *TransformNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *TransformNode) Type() models.NodeType {
	return models.NodeTypeTransform
}

// Execute applies the configured operation to the node's primary input.
func (n *TransformNode) Execute(_ context.Context, state *models.ExecutionContext, input models.NodeInput) (map[string]models.NodeResult, error) {
	text := resolver.Stringify(input.Primary)

	var result any

	switch n.operation {
	case OpUppercase:
		result = strings.ToUpper(text)
	case OpLowercase:
		result = strings.ToLower(text)
	case OpTrim:
		result = strings.TrimSpace(text)
	case OpRegexReplace:
		result = n.pattern.ReplaceAllString(text, n.replacement)
	case OpJSONExtract:
		extracted, err := n.extract(input.Primary, text)
		if err != nil {
			return nil, err
		}

		result = extracted
	case OpTemplate:
		result = resolver.Render(n.template, resolver.ScopeFromExecution(state, input.Primary))
	}

	return map[string]models.NodeResult{
		models.HandleMain: {
			NodeID:    n.id,
			Data:      result,
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}

// extract traverses the input as a JSON value. String inputs are parsed
// first; structured inputs are traversed directly.
func (n *TransformNode) extract(value any, text string) (any, error) {
	tree := value

	if _, ok := value.(string); ok {
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return nil, fmt.Errorf("json_extract input is not valid JSON: %w", err)
		}

		tree = parsed
	}

	extracted, ok := n.path.Resolve(tree)
	if !ok {
		return nil, fmt.Errorf("path %q not found in input", n.path.String())
	}

	return extracted, nil
}
