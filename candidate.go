package meshsimplify

import "github.com/go-gl/mathgl/mgl64"

// candidate is a proposed edge contraction: the canonical edge, the
// quadric-optimal replacement position and its cost, and a validity flag
// so a stale heap entry can be skipped at pop time instead of removed.
type candidate struct {
	edge  edgeKey
	pos   mgl64.Vec3
	cost  float64
	valid bool
	index int
}

// candidateHeap is a binary min-heap over cost, tie-broken by canonical
// edge so that output ordering is deterministic across runs. This is the
// same container/heap-based priority queue shape nat-n-shapeset/edge.go
// uses for its own border-edge collapse, generalised here to tolerate
// entries invalidated out from under it rather than only re-costed with
// heap.Fix: a 3-D collapse can retire an edge outright, which heap.Fix
// alone can't express.
type candidateHeap []*candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	if h[i].edge.tail != h[j].edge.tail {
		return h[i].edge.tail < h[j].edge.tail
	}
	return h[i].edge.head < h[j].edge.head
}

func (h candidateHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *candidateHeap) Push(x any) {
	c := x.(*candidate)
	c.index = len(*h)
	*h = append(*h, c)
}

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	c.index = -1
	*h = old[:n-1]
	return c
}
