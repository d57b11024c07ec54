package meshsimplify

import "github.com/go-gl/mathgl/mgl64"

// Vertex is an identified point in 3-space. IDs are the sole basis for
// equality and hashing across the half-edge mesh; they are never reused
// within one Simplify run.
type Vertex struct {
	ID       int64
	Position mgl64.Vec3

	// out is one currently-incident outgoing half-edge, used as the entry
	// point for 1-ring walks. It is not authoritative: the edge map is.
	out    edgeKey
	hasOut bool
}

func newVertex(id int64, pos mgl64.Vec3) *Vertex {
	return &Vertex{ID: id, Position: pos}
}

func (v *Vertex) setOut(k edgeKey) {
	v.out = k
	v.hasOut = true
}
