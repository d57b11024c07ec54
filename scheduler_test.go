package meshsimplify

import (
	"context"
	"testing"
)

func TestBuildQuadricsSumsPerFaceContributions(t *testing.T) {
	hem, err := buildHalfEdgeMesh(tetrahedronMesh())
	if err != nil {
		t.Fatalf("buildHalfEdgeMesh: %v", err)
	}
	quadrics := buildQuadrics(hem)
	if len(quadrics) != len(hem.vertices) {
		t.Fatalf("got %d quadrics, want %d", len(quadrics), len(hem.vertices))
	}

	var want Quadric
	for _, f := range hem.faces {
		want = want.Add(planeQuadric(f.plane4(hem.position)))
	}
	var got Quadric
	for _, q := range quadrics {
		got = got.Add(q)
	}
	// Every vertex accumulates the quadric of each of its 3 incident faces,
	// and a tetrahedron's 4 faces each touch exactly 3 vertices, so summing
	// all per-vertex quadrics triple-counts the per-face sum.
	tripled := want.Add(want).Add(want)
	if got != tripled {
		t.Errorf("sum of per-vertex quadrics = %+v, want %+v", got, tripled)
	}
}

func TestSchedulerSeedPopulatesOneCandidatePerCanonicalEdge(t *testing.T) {
	hem, err := buildHalfEdgeMesh(octahedronMesh())
	if err != nil {
		t.Fatalf("buildHalfEdgeMesh: %v", err)
	}
	sched, err := newScheduler(hem, false)
	if err != nil {
		t.Fatalf("newScheduler: %v", err)
	}

	wantEdges := len(hem.edges) / 2
	if sched.queue.Len() != wantEdges {
		t.Errorf("queue length = %d, want %d", sched.queue.Len(), wantEdges)
	}
	if len(sched.active) != wantEdges {
		t.Errorf("active map length = %d, want %d", len(sched.active), wantEdges)
	}
	for k, c := range sched.active {
		if !c.valid {
			t.Errorf("candidate %v seeded as invalid", k)
		}
		if c.edge != k {
			t.Errorf("active[%v].edge = %v, want %v", k, c.edge, k)
		}
	}
}

func TestInvalidateNeighborhoodMarksCandidatesInvalid(t *testing.T) {
	hem, err := buildHalfEdgeMesh(octahedronMesh())
	if err != nil {
		t.Fatalf("buildHalfEdgeMesh: %v", err)
	}
	sched, err := newScheduler(hem, false)
	if err != nil {
		t.Fatalf("newScheduler: %v", err)
	}

	neighbors, err := hem.starNeighbors(0)
	if err != nil {
		t.Fatalf("starNeighbors: %v", err)
	}
	seeded := make(map[edgeKey]*candidate, len(neighbors))
	for _, n := range neighbors {
		k := canonicalKey(0, n)
		seeded[k] = sched.active[k]
	}
	sched.invalidateNeighborhood(0, neighbors)

	for _, n := range neighbors {
		k := canonicalKey(0, n)
		if _, ok := sched.active[k]; ok {
			t.Errorf("edge %v still active after invalidateNeighborhood", k)
		}
		if c := seeded[k]; c == nil || c.valid {
			t.Errorf("edge %v: seeded candidate not marked invalid", k)
		}
	}
}

func TestSchedulerRunIsIdempotentAtRateZero(t *testing.T) {
	hem, err := buildHalfEdgeMesh(cubeMesh())
	if err != nil {
		t.Fatalf("buildHalfEdgeMesh: %v", err)
	}
	before := hem.faceCount()

	sched, err := newScheduler(hem, false)
	if err != nil {
		t.Fatalf("newScheduler: %v", err)
	}
	if err := sched.run(context.Background(), float64(before)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if hem.faceCount() != before {
		t.Errorf("face count after rate-0 run = %d, want unchanged %d", hem.faceCount(), before)
	}
}

func TestSchedulerRunNeverIncreasesFaceCount(t *testing.T) {
	hem, err := buildHalfEdgeMesh(cubeMesh())
	if err != nil {
		t.Fatalf("buildHalfEdgeMesh: %v", err)
	}
	before := hem.faceCount()

	sched, err := newScheduler(hem, false)
	if err != nil {
		t.Fatalf("newScheduler: %v", err)
	}
	if err := sched.run(context.Background(), 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	if hem.faceCount() > before {
		t.Errorf("face count after run = %d, exceeds starting %d", hem.faceCount(), before)
	}
	checkHalfEdgeLaws(t, hem)
}
