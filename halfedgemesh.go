package meshsimplify

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// HalfEdgeMesh is the connectivity structure the contraction scheduler
// mutates in place: vertices, edges, and faces are looked up by identifier
// rather than held through owning pointers, which is how cyclic references
// (half-edge/flip, edge/face) are represented without reference cycles
// that could never be broken.
type HalfEdgeMesh struct {
	vertices map[int64]*Vertex
	edges    map[edgeKey]*halfEdge
	faces    map[faceKey]*triFace

	nextVertexID int64
	transform    mgl64.Mat4
}

func newHalfEdgeMesh() *HalfEdgeMesh {
	return &HalfEdgeMesh{
		vertices: make(map[int64]*Vertex),
		edges:    make(map[edgeKey]*halfEdge),
		faces:    make(map[faceKey]*triFace),
	}
}

// buildHalfEdgeMesh constructs connectivity from an IndexedMesh. One vertex
// is created per input position; one face (and its bordering half-edge
// pairs, created on first reference) per input triangle.
func buildHalfEdgeMesh(mesh IndexedMesh) (*HalfEdgeMesh, error) {
	if err := mesh.validate(); err != nil {
		return nil, err
	}

	m := newHalfEdgeMesh()
	m.transform = mesh.ModelTransform

	n := mesh.VertexCount()
	for i := 0; i < n; i++ {
		id := int64(i)
		m.vertices[id] = newVertex(id, mesh.position(i))
	}
	m.nextVertexID = int64(n)

	triCount := mesh.TriangleCount()
	for t := 0; t < triCount; t++ {
		a, b, c := mesh.triangleVertexIndices(t)
		if err := m.addTriangle(int64(a), int64(b), int64(c)); err != nil {
			return nil, err
		}
	}

	if err := m.checkClosed(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkClosed rejects meshes with boundary: every half-edge inserted during
// construction must have had its flip partner installed by another
// triangle. The base algorithm assumes a closed 2-manifold; open meshes are
// out of scope rather than handled with a sentinel hole face, see DESIGN.md.
func (m *HalfEdgeMesh) checkClosed() error {
	for k, e := range m.edges {
		flip, ok := m.edges[e.flip]
		if !ok || flip.flip != k {
			return newError(InvalidInput, "checkClosed", errOpenMesh)
		}
		if e.face == (faceKey{}) {
			return newError(InvalidInput, "checkClosed", errOpenMesh)
		}
	}
	return nil
}

func (m *HalfEdgeMesh) position(id int64) mgl64.Vec3 {
	return m.vertices[id].Position
}

// addTriangle builds (or reuses) the half-edge pairs for the three edges of
// triangle (a,b,c) in that CCW order, wires their next-cycle, and installs
// the resulting face.
func (m *HalfEdgeMesh) addTriangle(a, b, c int64) error {
	face, err := newTriFace(a, b, c, m.position(a), m.position(b), m.position(c))
	if err != nil {
		return err
	}

	loop := [3]int64{a, b, c}
	var keys [3]edgeKey
	for i := 0; i < 3; i++ {
		tail, head := loop[i], loop[(i+1)%3]
		k := hashEdge(tail, head)
		if _, exists := m.edges[k]; !exists {
			rk := hashEdge(head, tail)
			m.edges[k] = &halfEdge{tail: tail, head: head, flip: rk}
			if _, revExists := m.edges[rk]; !revExists {
				m.edges[rk] = &halfEdge{tail: head, head: tail, flip: k}
			} else {
				m.edges[rk].flip = k
			}
		}
		keys[i] = k
	}

	fk := face.key()
	for i := 0; i < 3; i++ {
		m.edges[keys[i]].next = keys[(i+1)%3]
		m.edges[keys[i]].face = fk
	}
	m.faces[fk] = face

	for i := 0; i < 3; i++ {
		m.vertices[loop[i]].setOut(keys[i])
	}
	return nil
}

// star returns, in rotational order, every half-edge whose tail is center,
// starting from its stored outgoing reference. Walking follows
// next(flip(e)): flip(e) shares center as its head, and next of a half-edge
// always starts where that half-edge ends, so next(flip(e)) is the next
// outgoing edge encountered sweeping around center.
func (m *HalfEdgeMesh) star(center int64) ([]edgeKey, error) {
	v, ok := m.vertices[center]
	if !ok || !v.hasOut {
		return nil, newError(MissingVertex, "star", nil)
	}
	start := v.out
	cur := start
	out := make([]edgeKey, 0, 6)
	for {
		out = append(out, cur)
		e, ok := m.edges[cur]
		if !ok {
			return nil, newError(MissingEdge, "star", nil)
		}
		flipE, ok := m.edges[e.flip]
		if !ok {
			return nil, newError(MissingEdge, "star", nil)
		}
		cur = flipE.next
		if cur == start {
			return out, nil
		}
		if len(out) > len(m.edges) {
			return nil, newError(MissingEdge, "star: did not cycle back to start", nil)
		}
	}
}

func (m *HalfEdgeMesh) starNeighbors(center int64) ([]int64, error) {
	edges, err := m.star(center)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(edges))
	for i, k := range edges {
		e, ok := m.edges[k]
		if !ok {
			return nil, newError(MissingEdge, "starNeighbors", nil)
		}
		out[i] = e.head
	}
	return out, nil
}

// wingApexes returns the apex vertex of each triangle bordering e01: the
// head of next(e01) (left face apex) and the head of next(flip(e01))
// (right face apex).
func (m *HalfEdgeMesh) wingApexes(e01 edgeKey) (v1Next, v0Next int64, err error) {
	e, ok := m.edges[e01]
	if !ok {
		return 0, 0, newError(MissingEdge, "wingApexes", nil)
	}
	nxt, ok := m.edges[e.next]
	if !ok {
		return 0, 0, newError(MissingEdge, "wingApexes", nil)
	}
	flipE, ok := m.edges[e.flip]
	if !ok {
		return 0, 0, newError(MissingEdge, "wingApexes", nil)
	}
	flipNxt, ok := m.edges[flipE.next]
	if !ok {
		return 0, 0, newError(MissingEdge, "wingApexes", nil)
	}
	return nxt.head, flipNxt.head, nil
}

// willDegenerate implements the link condition: collapsing e01 is safe iff
// the 1-rings of its endpoints intersect only in the two wing apexes. A
// mesh of 4 vertices is a tetrahedron, the smallest possible closed
// triangle mesh; collapsing any of its edges would leave 3 vertices, too
// few to close a 2-manifold, so every edge is rejected outright without
// needing the general 1-ring walk below.
func (m *HalfEdgeMesh) willDegenerate(e01 edgeKey) (bool, error) {
	if len(m.vertices) <= 4 {
		return true, nil
	}

	e, ok := m.edges[e01]
	if !ok {
		return true, newError(MissingEdge, "willDegenerate", nil)
	}
	v0, v1 := e.tail, e.head
	v1Next, v0Next, err := m.wingApexes(e01)
	if err != nil {
		return true, err
	}

	ring0, err := m.starNeighbors(v0)
	if err != nil {
		return true, err
	}
	ring1, err := m.starNeighbors(v1)
	if err != nil {
		return true, err
	}

	excluded0 := map[int64]bool{v1: true, v1Next: true, v0Next: true}
	excluded1 := map[int64]bool{v0: true, v1Next: true, v0Next: true}

	set0 := make(map[int64]bool, len(ring0))
	for _, v := range ring0 {
		if !excluded0[v] {
			set0[v] = true
		}
	}
	for _, v := range ring1 {
		if excluded1[v] {
			continue
		}
		if set0[v] {
			return true, nil
		}
	}
	return false, nil
}

// reparentStar rewrites the fan of triangles around center that starts at
// the edge center->startNeighbor and ends before the edge
// center->stopNeighbor (stop exclusive), replacing center with vnew in
// each, and retires the old (center, vi) edge pairs and faces as it goes.
func (m *HalfEdgeMesh) reparentStar(center, startNeighbor, stopNeighbor, vnew int64) error {
	cur := hashEdge(center, startNeighbor)
	stop := hashEdge(center, stopNeighbor)

	for cur != stop {
		oe, ok := m.edges[cur]
		if !ok {
			return newError(MissingEdge, "reparentStar", nil)
		}
		nxt, ok := m.edges[oe.next]
		if !ok {
			return newError(MissingEdge, "reparentStar", nil)
		}
		vi, vj := oe.head, nxt.head

		// The next edge of the fan is center->vj, the flip of the edge that
		// closes this triangle back into center.
		advance := hashEdge(center, vj)

		oldFace := oe.face
		oldReverse := oe.flip

		if err := m.addTriangle(vnew, vi, vj); err != nil {
			return err
		}

		delete(m.faces, oldFace)
		delete(m.edges, cur)
		delete(m.edges, oldReverse)

		cur = advance
	}
	return nil
}

// collapseEdge contracts e01 (tail v0, head v1) into a freshly allocated
// vertex at position pos, per the half-edge laws: the two wing faces are
// identified first (their apexes anchor the reparenting arcs), both stars
// are rewired around the new vertex, then the bow-tie itself is removed.
func (m *HalfEdgeMesh) collapseEdge(e01 edgeKey, pos mgl64.Vec3) (vnew int64, err error) {
	e, ok := m.edges[e01]
	if !ok {
		return 0, newError(MissingEdge, "collapseEdge", nil)
	}
	v0, v1 := e.tail, e.head

	v1Next, v0Next, err := m.wingApexes(e01)
	if err != nil {
		return 0, err
	}

	id := m.nextVertexID
	m.nextVertexID++
	m.vertices[id] = newVertex(id, pos)

	if err := m.reparentStar(v0, v1Next, v0Next, id); err != nil {
		return 0, err
	}
	if err := m.reparentStar(v1, v0Next, v1Next, id); err != nil {
		return 0, err
	}

	flipKey := e.flip
	flipE, ok := m.edges[flipKey]
	if !ok {
		return 0, newError(MissingEdge, "collapseEdge", nil)
	}
	delete(m.faces, e.face)
	delete(m.faces, flipE.face)
	delete(m.edges, e01)
	delete(m.edges, flipKey)
	// The wing pairs v0-v0Next and v1-v1Next bordered only the two removed
	// faces; reparentStar already built their replacements around vnew.
	delete(m.edges, hashEdge(v0, v0Next))
	delete(m.edges, hashEdge(v0Next, v0))
	delete(m.edges, hashEdge(v1, v1Next))
	delete(m.edges, hashEdge(v1Next, v1))

	delete(m.vertices, v0)
	delete(m.vertices, v1)

	return id, nil
}

// sortedVertexIDs returns every live vertex ID in ascending order, the
// order positions are emitted in when converting back to an IndexedMesh.
func (m *HalfEdgeMesh) sortedVertexIDs() []int64 {
	ids := make([]int64, 0, len(m.vertices))
	for id := range m.vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// toIndexedMesh rebuilds the boundary type: positions in ascending vertex
// ID order, triangles using each face's stored canonical rotation, and
// output normals recomputed as the area-weighted average of incident face
// normals. Texture coordinates are not carried through a collapse and are
// therefore omitted here, see SPEC_FULL.md design notes.
func (m *HalfEdgeMesh) toIndexedMesh() IndexedMesh {
	ids := m.sortedVertexIDs()
	dense := make(map[int64]int, len(ids))
	for i, id := range ids {
		dense[id] = i
	}

	positions := make([]float32, 0, len(ids)*3)
	normalSum := make([]mgl64.Vec3, len(ids))
	for _, id := range ids {
		p := m.vertices[id].Position
		positions = append(positions, float32(p[0]), float32(p[1]), float32(p[2]))
	}

	indices := make([]uint32, 0, len(m.faces)*3)
	for _, f := range m.faces {
		a, b, c := dense[f.v0], dense[f.v1], dense[f.v2]
		indices = append(indices, uint32(a), uint32(b), uint32(c))
		weighted := f.Normal.Mul(f.Area)
		normalSum[a] = normalSum[a].Add(weighted)
		normalSum[b] = normalSum[b].Add(weighted)
		normalSum[c] = normalSum[c].Add(weighted)
	}

	normals := make([]float32, 0, len(ids)*3)
	for _, n := range normalSum {
		if l := n.Len(); l > 0 {
			n = n.Mul(1.0 / l)
		}
		normals = append(normals, float32(n[0]), float32(n[1]), float32(n[2]))
	}

	return IndexedMesh{
		Positions:      positions,
		Normals:        normals,
		Indices:        indices,
		ModelTransform: m.transform,
	}
}

func (m *HalfEdgeMesh) faceCount() int { return len(m.faces) }
