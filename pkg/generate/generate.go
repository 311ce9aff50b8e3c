// Package generate produces random cost-prize trees for tests, benchmarks
// and the command line.
//
// Two shapes are available. [Wide] gives every node, in order, a random number
// of the remaining nodes as children, which yields short bushy trees. [Tall]
// decodes a uniformly random Prüfer sequence and roots the result at node 0,
// which yields longer paths. Both are reproducible from a seed.
package generate

import (
	"container/heap"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/csmtree/pkg/csm"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// Shape selects the random tree generator.
type Shape string

const (
	Wide Shape = "wide"
	Tall Shape = "tall"
)

// Label range of [CSM].
const (
	MinLabel = 1
	MaxLabel = 10
)

// ParseShape parses "wide" or "tall".
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(s)) {
	case Wide, "":
		return Wide, nil
	case Tall:
		return Tall, nil
	}
	return "", cerrors.New(cerrors.ErrCodeInvalidInput, "unknown shape %q (want wide or tall)", s)
}

// NewRand returns the PCG source used by every generator for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Parents returns a random parent array over n nodes rooted at node 0:
// parents[0] is -1 and every other entry is the index of the parent.
func Parents(n int, shape Shape, rng *rand.Rand) []int {
	if n <= 0 {
		return nil
	}
	if shape == Tall {
		return pruferParents(n, rng)
	}
	return wideParents(n, rng)
}

// wideParents walks the nodes in order; each node rolls a number of children
// between one and the count of unattached nodes and adopts that many of them.
func wideParents(n int, rng *rand.Rand) []int {
	parents := make([]int, n)
	parents[0] = -1
	next := 1
	for i := 0; i < n && next < n; i++ {
		remaining := n - next
		k := 1
		if remaining > 1 {
			k = 1 + rng.IntN(remaining)
		}
		for ; k > 0; k-- {
			parents[next] = i
			next++
		}
	}
	return parents
}

// pruferParents decodes a random Prüfer sequence into a uniformly random
// labeled tree and orients it away from node 0.
func pruferParents(n int, rng *rand.Rand) []int {
	adj := make([][]int, n)
	if n == 2 {
		adj[0], adj[1] = []int{1}, []int{0}
	}
	if n > 2 {
		seq := make([]int, n-2)
		degree := make([]int, n)
		for i := range degree {
			degree[i] = 1
		}
		for i := range seq {
			seq[i] = rng.IntN(n)
			degree[seq[i]]++
		}

		leaves := &intHeap{}
		for v, d := range degree {
			if d == 1 {
				heap.Push(leaves, v)
			}
		}
		link := func(a, b int) {
			adj[a] = append(adj[a], b)
			adj[b] = append(adj[b], a)
		}
		for _, v := range seq {
			leaf := heap.Pop(leaves).(int)
			link(leaf, v)
			if degree[v]--; degree[v] == 1 {
				heap.Push(leaves, v)
			}
		}
		link(heap.Pop(leaves).(int), heap.Pop(leaves).(int))
	}

	parents := make([]int, n)
	parents[0] = -1
	visited := make([]bool, n)
	visited[0] = true
	queue := []int{0}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, u := range adj[v] {
			if !visited[u] {
				visited[u] = true
				parents[u] = v
				queue = append(queue, u)
			}
		}
	}
	return parents
}

type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// RandomLabels returns n values drawn uniformly from [lo, hi].
func RandomLabels(n, lo, hi int, rng *rand.Rand) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = lo + rng.IntN(hi-lo+1)
	}
	return out
}

// Zero returns n zero labels.
func Zero(n int) []int { return make([]int, n) }

// Tree builds an n-node tree of the given shape with the given labels,
// indexed like the parent array (entry 0 belongs to the root and is ignored).
func Tree(n int, shape Shape, rng *rand.Rand, costs, prizes []int) (*csm.Tree, error) {
	if n <= 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "tree size must be positive, got %d", n)
	}
	return csm.FromParents(Parents(n, shape, rng), costs, prizes)
}

// CSM builds a random n-node tree with costs and prizes drawn uniformly from
// [MinLabel, MaxLabel].
func CSM(n int, shape Shape, seed uint64) (*csm.Tree, error) {
	rng := NewRand(seed)
	parents := Parents(n, shape, rng)
	if parents == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "tree size must be positive, got %d", n)
	}
	costs := append([]int{0}, RandomLabels(n-1, MinLabel, MaxLabel, rng)...)
	prizes := append([]int{0}, RandomLabels(n-1, MinLabel, MaxLabel, rng)...)
	return csm.FromParents(parents, costs, prizes)
}

// ZeroCSM builds a random n-node tree whose costs and prizes are all zero.
func ZeroCSM(n int, shape Shape, seed uint64) (*csm.Tree, error) {
	return Tree(n, shape, NewRand(seed), Zero(n), Zero(n))
}
