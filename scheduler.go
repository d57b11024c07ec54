package meshsimplify

import (
	"container/heap"
	"context"
	"log"
)

// ContractionScheduler drives the simplification loop: a best-first
// priority queue of candidate edge contractions, repaired locally after
// every collapse rather than rebuilt, matching the lazy-invalidation heap
// pattern of nat-n-shapeset's edgeHeap generalised to handle edges that
// vanish outright (not just re-cost) across a 3-D collapse. A candidate
// rejected by the manifold guard is dropped from the queue for good; it is
// not reconsidered even if later collapses would make that edge safe.
type ContractionScheduler struct {
	mesh     *HalfEdgeMesh
	quadrics map[int64]Quadric
	queue    candidateHeap
	active   map[edgeKey]*candidate
	verbose  bool
}

func buildQuadrics(mesh *HalfEdgeMesh) map[int64]Quadric {
	q := make(map[int64]Quadric, len(mesh.vertices))
	for _, f := range mesh.faces {
		plane := planeQuadric(f.plane4(mesh.position))
		q[f.v0] = q[f.v0].Add(plane)
		q[f.v1] = q[f.v1].Add(plane)
		q[f.v2] = q[f.v2].Add(plane)
	}
	return q
}

func newScheduler(mesh *HalfEdgeMesh, verbose bool) (*ContractionScheduler, error) {
	s := &ContractionScheduler{
		mesh:     mesh,
		quadrics: buildQuadrics(mesh),
		active:   make(map[edgeKey]*candidate),
		verbose:  verbose,
	}
	heap.Init(&s.queue)
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// evaluateEdge computes the quadric-optimal contraction candidate for the
// canonical edge k, summing the quadrics of its two endpoints.
func (s *ContractionScheduler) evaluateEdge(k edgeKey) (*candidate, error) {
	e, ok := s.mesh.edges[k]
	if !ok {
		return nil, newError(MissingEdge, "evaluateEdge", nil)
	}
	q := s.quadrics[e.tail].Add(s.quadrics[e.head])
	pos, cost := q.optimalPoint(s.mesh.position(e.tail), s.mesh.position(e.head))
	return &candidate{edge: k, pos: pos, cost: cost, valid: true}, nil
}

func (s *ContractionScheduler) seed() error {
	seen := make(map[edgeKey]bool, len(s.mesh.edges)/2)
	for _, e := range s.mesh.edges {
		ck := canonicalKey(e.tail, e.head)
		if seen[ck] {
			continue
		}
		seen[ck] = true
		c, err := s.evaluateEdge(ck)
		if err != nil {
			return err
		}
		heap.Push(&s.queue, c)
		s.active[ck] = c
	}
	return nil
}

func (s *ContractionScheduler) invalidateNeighborhood(center int64, neighbors []int64) {
	for _, n := range neighbors {
		k := canonicalKey(center, n)
		if c, ok := s.active[k]; ok {
			c.valid = false
			delete(s.active, k)
		}
	}
}

// reevaluateAround recomputes candidates for every edge within two hops of
// vnew: vnew's own incident edges, and the incident edges of each of its
// neighbors, deduplicated by canonical key. The two-hop radius is what
// changes: the first hop's quadrics changed because vnew replaced v0/v1,
// and any second-hop edge whose cost depends on a first-hop vertex's
// quadric is stale too.
func (s *ContractionScheduler) reevaluateAround(vnew int64) error {
	visited := make(map[edgeKey]bool)
	process := func(a, b int64) error {
		k := canonicalKey(a, b)
		if visited[k] {
			return nil
		}
		visited[k] = true
		if old, ok := s.active[k]; ok {
			old.valid = false
		}
		c, err := s.evaluateEdge(k)
		if err != nil {
			return err
		}
		heap.Push(&s.queue, c)
		s.active[k] = c
		return nil
	}

	neighbors, err := s.mesh.starNeighbors(vnew)
	if err != nil {
		return err
	}
	for _, nb := range neighbors {
		if err := process(vnew, nb); err != nil {
			return err
		}
		nbNeighbors, err := s.mesh.starNeighbors(nb)
		if err != nil {
			return err
		}
		for _, nb2 := range nbNeighbors {
			if err := process(nb, nb2); err != nil {
				return err
			}
		}
	}
	return nil
}

// run pops candidates in cost order until the mesh's face count drops
// strictly below threshold, the queue empties, or ctx is cancelled. A
// threshold at or above the starting face count (rate 0) requests no
// reduction, and the mesh is left unchanged.
func (s *ContractionScheduler) run(ctx context.Context, threshold float64) error {
	if threshold >= float64(s.mesh.faceCount()) {
		return nil
	}
	collapses := 0
	for float64(s.mesh.faceCount()) >= threshold {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.queue.Len() == 0 {
			if s.verbose {
				log.Printf("meshsimplify: queue exhausted after %d collapses, %d faces remain", collapses, s.mesh.faceCount())
			}
			return nil
		}

		top := s.queue[0]
		if !top.valid {
			heap.Pop(&s.queue)
			continue
		}

		degenerate, err := s.mesh.willDegenerate(top.edge)
		if err != nil {
			return err
		}
		if degenerate {
			heap.Pop(&s.queue)
			delete(s.active, top.edge)
			continue
		}

		e, ok := s.mesh.edges[top.edge]
		if !ok {
			return newError(MissingEdge, "run", nil)
		}
		v0, v1 := e.tail, e.head

		neighbors0, err := s.mesh.starNeighbors(v0)
		if err != nil {
			return err
		}
		neighbors1, err := s.mesh.starNeighbors(v1)
		if err != nil {
			return err
		}
		qnew := s.quadrics[v0].Add(s.quadrics[v1])

		vnew, err := s.mesh.collapseEdge(top.edge, top.pos)
		if err != nil {
			return err
		}
		s.quadrics[vnew] = qnew
		delete(s.quadrics, v0)
		delete(s.quadrics, v1)

		heap.Pop(&s.queue)
		delete(s.active, top.edge)

		s.invalidateNeighborhood(v0, neighbors0)
		s.invalidateNeighborhood(v1, neighbors1)

		if err := s.reevaluateAround(vnew); err != nil {
			return err
		}

		collapses++
	}
	if s.verbose {
		log.Printf("meshsimplify: reached target after %d collapses, %d faces remain", collapses, s.mesh.faceCount())
	}
	return nil
}
