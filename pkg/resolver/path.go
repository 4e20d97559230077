// Package resolver implements the {{path}} variable interpolation
// mini-language used inside node configuration strings. Paths are parsed into
// a small accessor AST (dot and bracket segments) and evaluated against the
// tree-shaped results of prior nodes.
package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// accessorKind discriminates the two accessor variants of a parsed path.
type accessorKind int

const (
	accessorKey accessorKind = iota
	accessorIndex
)

type accessor struct {
	kind  accessorKind
	key   string
	index int
}

// Path is a parsed path expression such as `node1.output.items[2].title`.
type Path struct {
	raw       string
	accessors []accessor
}

var errEmptyPath = errors.New("empty path expression")

// ParsePath parses a dotted/bracketed path expression into its accessor list.
// Bracket segments accept integer indices and single- or double-quoted keys.
func ParsePath(raw string) (Path, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Path{}, errEmptyPath
	}

	path := Path{raw: raw}
	pos := 0

	for pos < len(s) {
		switch {
		case s[pos] == '.':
			if pos == 0 || pos == len(s)-1 {
				return Path{}, fmt.Errorf("unexpected '.' at position %d in %q", pos, raw)
			}

			pos++
		case s[pos] == '[':
			end := strings.IndexByte(s[pos:], ']')
			if end < 0 {
				return Path{}, fmt.Errorf("unterminated '[' at position %d in %q", pos, raw)
			}

			inner := s[pos+1 : pos+end]

			acc, err := parseBracket(inner, raw)
			if err != nil {
				return Path{}, err
			}

			path.accessors = append(path.accessors, acc)
			pos += end + 1
		default:
			end := pos
			for end < len(s) && s[end] != '.' && s[end] != '[' {
				end++
			}

			path.accessors = append(path.accessors, accessor{kind: accessorKey, key: s[pos:end]})
			pos = end
		}
	}

	if len(path.accessors) == 0 {
		return Path{}, errEmptyPath
	}

	return path, nil
}

func parseBracket(inner, raw string) (accessor, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return accessor{}, fmt.Errorf("empty bracket segment in %q", raw)
	}

	if len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') {
		if inner[len(inner)-1] != inner[0] {
			return accessor{}, fmt.Errorf("unterminated quote in bracket segment of %q", raw)
		}

		return accessor{kind: accessorKey, key: inner[1 : len(inner)-1]}, nil
	}

	idx, err := strconv.Atoi(inner)
	if err != nil {
		return accessor{}, fmt.Errorf("bracket segment %q in %q is neither an index nor a quoted key", inner, raw)
	}

	return accessor{kind: accessorIndex, index: idx}, nil
}

// String returns the original expression text.
func (p Path) String() string {
	return p.raw
}

// Resolve walks the accessor chain down the given value tree. The second
// return reports whether every segment resolved; callers that interpolate
// treat a miss as the empty string.
func (p Path) Resolve(root any) (any, bool) {
	current := root

	for _, acc := range p.accessors {
		next, ok := step(current, acc)
		if !ok {
			return nil, false
		}

		current = next
	}

	return current, true
}

func step(value any, acc accessor) (any, bool) {
	switch v := value.(type) {
	case map[string]any:
		if acc.kind != accessorKey {
			return nil, false
		}

		child, ok := v[acc.key]

		return child, ok
	case map[string]string:
		if acc.kind != accessorKey {
			return nil, false
		}

		child, ok := v[acc.key]

		return child, ok
	case []any:
		idx, ok := sliceIndex(acc)
		if !ok || idx < 0 || idx >= len(v) {
			return nil, false
		}

		return v[idx], true
	case []string:
		idx, ok := sliceIndex(acc)
		if !ok || idx < 0 || idx >= len(v) {
			return nil, false
		}

		return v[idx], true
	default:
		return nil, false
	}
}

// sliceIndex accepts both bracket indices and dotted numeric segments
// (`items.0` and `items[0]` are equivalent).
func sliceIndex(acc accessor) (int, bool) {
	if acc.kind == accessorIndex {
		return acc.index, true
	}

	idx, err := strconv.Atoi(acc.key)
	if err != nil {
		return 0, false
	}

	return idx, true
}
