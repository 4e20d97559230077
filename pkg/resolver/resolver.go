package resolver

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kohai-io/flowrun/pkg/models"
)

const (
	tokenOpen  = "{{"
	tokenClose = "}}"
)

// Scope is the data a template renders against: the primary predecessor
// output (`{{input}}`), prior node results (`{{<nodeId>.output.<subpath>}}`)
// and, inside a loop's "each" subgraph, the current iteration
// (`{{loop.output.value.<subpath>}}`).
type Scope struct {
	Input   any
	Results map[string]any
	Loop    *models.LoopIteration
}

// ScopeFromExecution builds a resolution scope from the shared execution
// context plus the node's own routed input.
func ScopeFromExecution(state *models.ExecutionContext, input any) Scope {
	scope := Scope{Input: input}

	if state != nil {
		scope.Results = state.NodeResults
		scope.Loop = state.Loop
	}

	return scope
}

func (s Scope) root() map[string]any {
	root := make(map[string]any, len(s.Results)+2)

	for nodeID, value := range s.Results {
		root[nodeID] = map[string]any{"output": value}
	}

	if s.Loop != nil {
		root["loop"] = map[string]any{
			"output": map[string]any{
				"iteration": s.Loop.Iteration,
				"value":     s.Loop.Value,
			},
		}
	}

	root["input"] = s.Input

	return root
}

// part is one piece of a parsed template: literal text or a path expression.
// A token whose path failed to parse carries a zero Path and renders empty.
type part struct {
	literal string
	expr    *Path
}

// Template is a parsed interpolation template.
type Template struct {
	parts []part
}

// Parse splits a template string into literal and expression parts.
// Malformed expressions are kept as unresolvable parts rather than errors:
// resolution failure is a display concern, not a fatal one.
func Parse(input string) *Template {
	tmpl := &Template{}
	rest := input

	for {
		open := strings.Index(rest, tokenOpen)
		if open < 0 {
			break
		}

		closing := strings.Index(rest[open:], tokenClose)
		if closing < 0 {
			break
		}

		if open > 0 {
			tmpl.parts = append(tmpl.parts, part{literal: rest[:open]})
		}

		raw := rest[open+len(tokenOpen) : open+closing]

		if path, err := ParsePath(raw); err == nil {
			tmpl.parts = append(tmpl.parts, part{expr: &path})
		} else {
			tmpl.parts = append(tmpl.parts, part{expr: &Path{raw: raw}})
		}

		rest = rest[open+closing+len(tokenClose):]
	}

	if rest != "" {
		tmpl.parts = append(tmpl.parts, part{literal: rest})
	}

	return tmpl
}

// Render evaluates the template against the scope. Unresolved expressions
// contribute the empty string.
func (t *Template) Render(scope Scope) string {
	var sb strings.Builder

	root := scope.root()

	for _, p := range t.parts {
		if p.expr == nil {
			sb.WriteString(p.literal)

			continue
		}

		if len(p.expr.accessors) == 0 {
			continue
		}

		value, ok := p.expr.Resolve(root)
		if !ok {
			continue
		}

		sb.WriteString(Stringify(value))
	}

	return sb.String()
}

// Value evaluates a template consisting of exactly one expression and returns
// the resolved value with its type intact; any other template shape falls
// back to string rendering. Loop nodes use this to resolve array expressions.
func (t *Template) Value(scope Scope) any {
	if len(t.parts) == 1 && t.parts[0].expr != nil && len(t.parts[0].expr.accessors) > 0 {
		value, ok := t.parts[0].expr.Resolve(scope.root())
		if !ok {
			return nil
		}

		return value
	}

	return t.Render(scope)
}

// Render is the one-shot convenience form of Parse + Render.
func Render(input string, scope Scope) string {
	return Parse(input).Render(scope)
}

// Stringify converts a resolved value into its interpolated text form.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return string(encoded)
	}
}
