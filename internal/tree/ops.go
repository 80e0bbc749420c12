package tree

import "strings"

// Position says where Insert places a node relative to its target.
type Position string

const (
	Inside Position = "inside"
	Before Position = "before"
	After  Position = "after"
)

// ParsePosition maps a drop-zone position string to a Position. Anything
// unrecognised, including the empty string, means Inside.
func ParsePosition(s string) Position {
	switch Position(strings.ToLower(strings.TrimSpace(s))) {
	case Before:
		return Before
	case After:
		return After
	default:
		return Inside
	}
}

// FindByID returns the first node with the given id in pre-order.
func FindByID(nodes []Node, id string) (Node, bool) {
	return find(nodes, func(n Node) bool { return n.ID == id })
}

// FindFirstByType returns the first node of the given type in pre-order.
func FindFirstByType(nodes []Node, typ string) (Node, bool) {
	return find(nodes, func(n Node) bool { return n.Type == typ })
}

func find(nodes []Node, match func(Node) bool) (Node, bool) {
	var found Node
	ok := false
	Walk(nodes, func(n Node) bool {
		if match(n) {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// CollectIDs lists every id in the forest in pre-order.
func CollectIDs(nodes []Node) []string {
	ids := make([]string, 0, len(nodes))
	Walk(nodes, func(n Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Insert returns a new forest with node placed relative to targetID. An empty
// or unknown targetID appends node to the root level.
func Insert(nodes []Node, node Node, targetID string, pos Position) []Node {
	if targetID != "" {
		if out, ok := insertAt(nodes, node, targetID, pos); ok {
			return out
		}
	}
	return spliceAt(nodes, len(nodes), node)
}

func insertAt(nodes []Node, node Node, targetID string, pos Position) ([]Node, bool) {
	for i, n := range nodes {
		if n.ID == targetID {
			switch pos {
			case Before:
				return spliceAt(nodes, i, node), true
			case After:
				return spliceAt(nodes, i+1, node), true
			default:
				n.Children = spliceAt(n.Children, len(n.Children), node)
				return replaceAt(nodes, i, n), true
			}
		}
		if children, ok := insertAt(n.Children, node, targetID, pos); ok {
			n.Children = children
			return replaceAt(nodes, i, n), true
		}
	}
	return nil, false
}

// Update returns a new forest where the props of the node with the given id
// are shallow-merged with patch. Ancestors of the node are copied; unrelated
// subtrees are shared with the input.
func Update(nodes []Node, id string, patch map[string]any) []Node {
	out, ok := update(nodes, id, patch)
	if !ok {
		return nodes
	}
	return out
}

func update(nodes []Node, id string, patch map[string]any) ([]Node, bool) {
	for i, n := range nodes {
		if n.ID == id {
			n.Props = mergeProps(n.Props, patch)
			return replaceAt(nodes, i, n), true
		}
		if children, ok := update(n.Children, id, patch); ok {
			n.Children = children
			return replaceAt(nodes, i, n), true
		}
	}
	return nil, false
}

func mergeProps(props, patch map[string]any) map[string]any {
	out := make(map[string]any, len(props)+len(patch))
	for k, v := range props {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Remove returns a new forest without the node with the given id (and its
// subtree). A missing id yields the input unchanged.
func Remove(nodes []Node, id string) []Node {
	out, ok := remove(nodes, id)
	if !ok {
		return nodes
	}
	return out
}

func remove(nodes []Node, id string) ([]Node, bool) {
	for i, n := range nodes {
		if n.ID == id {
			out := make([]Node, 0, len(nodes)-1)
			out = append(out, nodes[:i]...)
			return append(out, nodes[i+1:]...), true
		}
		if children, ok := remove(n.Children, id); ok {
			n.Children = children
			return replaceAt(nodes, i, n), true
		}
	}
	return nil, false
}

// Duplicate returns a new forest where a deep copy of the node with the given
// id sits right after the original, at the same nesting level. Every node of
// the copy gets a fresh id from newID (NewID when nil). A missing id yields the
// input unchanged.
func Duplicate(nodes []Node, id string, newID IDFunc) []Node {
	if newID == nil {
		newID = NewID
	}
	out, ok := duplicate(nodes, id, newID)
	if !ok {
		return nodes
	}
	return out
}

func duplicate(nodes []Node, id string, newID IDFunc) ([]Node, bool) {
	for i, n := range nodes {
		if n.ID == id {
			return spliceAt(nodes, i+1, Reidentify(cloneNode(n), newID)), true
		}
		if children, ok := duplicate(n.Children, id, newID); ok {
			n.Children = children
			return replaceAt(nodes, i, n), true
		}
	}
	return nil, false
}

// Reidentify assigns a fresh id to n and every node below it. n must not share
// its children slice with a live tree; pass a clone.
func Reidentify(n Node, newID IDFunc) Node {
	n.ID = newID()
	for i := range n.Children {
		n.Children[i] = Reidentify(n.Children[i], newID)
	}
	return n
}

func spliceAt(nodes []Node, i int, n Node) []Node {
	out := make([]Node, 0, len(nodes)+1)
	out = append(out, nodes[:i]...)
	out = append(out, n)
	return append(out, nodes[i:]...)
}

func replaceAt(nodes []Node, i int, n Node) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	out[i] = n
	return out
}
