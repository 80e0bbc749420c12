package tree

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Node is one typed, prop-bearing unit of a page layout. Children are held by
// value, so a tree can never contain a cycle.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Props    map[string]any `json:"props,omitempty"`
	Children []Node         `json:"children,omitempty"`
}

// IDFunc mints a fresh node id.
type IDFunc func() string

// NewID returns a random UUIDv4 string. It is the default IDFunc.
func NewID() string {
	return uuid.New().String()
}

var (
	ErrEmptyID     = errors.New("node id is empty")
	ErrEmptyType   = errors.New("node type is empty")
	ErrDuplicateID = errors.New("duplicate node id")
)

// Walk visits every node in depth-first pre-order. Returning false from fn
// stops the traversal.
func Walk(nodes []Node, fn func(n Node) bool) bool {
	for _, n := range nodes {
		if !fn(n) {
			return false
		}
		if !Walk(n.Children, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the forest.
func Count(nodes []Node) int {
	total := 0
	Walk(nodes, func(Node) bool {
		total++
		return true
	})
	return total
}

// Clone returns a deep copy of the forest. Prop values are copied through
// JSON-shaped containers (maps and slices); scalars are shared.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n Node) Node {
	return Node{
		ID:       n.ID,
		Type:     n.Type,
		Props:    cloneProps(n.Props),
		Children: Clone(n.Children),
	}
}

func cloneProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneProps(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two forests are structurally equal: same ids, types,
// props and children in the same order. Nil and empty props or children are
// treated as equal.
func Equal(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b Node) bool {
	if a.ID != b.ID || a.Type != b.Type {
		return false
	}
	if len(a.Props) != len(b.Props) {
		return false
	}
	if len(a.Props) > 0 && !reflect.DeepEqual(a.Props, b.Props) {
		return false
	}
	return Equal(a.Children, b.Children)
}

// Validate checks that every node has a non-empty id and type and that ids are
// unique across the forest. seen may be shared across several forests to check
// uniqueness document-wide; pass nil to check a single forest.
func Validate(nodes []Node, seen map[string]bool) error {
	if seen == nil {
		seen = make(map[string]bool)
	}
	var err error
	Walk(nodes, func(n Node) bool {
		switch {
		case n.ID == "":
			err = fmt.Errorf("%w (type %q)", ErrEmptyID, n.Type)
		case n.Type == "":
			err = fmt.Errorf("%w (id %q)", ErrEmptyType, n.ID)
		case seen[n.ID]:
			err = fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		}
		if err != nil {
			return false
		}
		seen[n.ID] = true
		return true
	})
	return err
}
