package tree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyTypes = []string{"Section", "Card", "Text", "Button", "Image"}

// randomForest builds a forest of size nodes with ids n0..n{size-1}, each
// attached under a random earlier node or at the root.
func randomForest(seed int64, size int) []Node {
	r := rand.New(rand.NewSource(seed))
	var nodes []Node
	for i := 0; i < size; i++ {
		n := Node{
			ID:    fmt.Sprintf("n%d", i),
			Type:  propertyTypes[r.Intn(len(propertyTypes))],
			Props: map[string]any{"i": float64(i)},
		}
		target := ""
		if i > 0 && r.Intn(3) > 0 {
			target = fmt.Sprintf("n%d", r.Intn(i))
		}
		nodes = Insert(nodes, n, target, Inside)
	}
	return nodes
}

func TestTreeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("removing an absent id leaves the tree unchanged", prop.ForAll(
		func(seed int64, size int) bool {
			nodes := randomForest(seed, size)
			return Equal(Remove(nodes, "absent"), nodes)
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.Property("duplicate mints disjoint ids for the whole subtree", prop.ForAll(
		func(seed int64, size int, pick int) bool {
			nodes := randomForest(seed, size)
			ids := CollectIDs(nodes)
			target := ids[pick%len(ids)]
			sub, _ := FindByID(nodes, target)

			got := CollectIDs(Duplicate(nodes, target, nil))
			if len(got) != len(ids)+Count([]Node{sub}) {
				return false
			}
			seen := make(map[string]bool, len(got))
			for _, id := range got {
				if seen[id] {
					return false
				}
				seen[id] = true
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(1, 40),
		gen.IntRange(0, 1000),
	))

	properties.Property("insert never mutates its input", prop.ForAll(
		func(seed int64, size int, pick int) bool {
			nodes := randomForest(seed, size)
			before := Clone(nodes)
			target := ""
			if ids := CollectIDs(nodes); len(ids) > 0 {
				target = ids[pick%len(ids)]
			}
			out := Insert(nodes, Node{ID: "fresh", Type: "Text"}, target, Inside)
			return Equal(nodes, before) && Count(out) == Count(nodes)+1
		},
		gen.Int64(),
		gen.IntRange(0, 40),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
