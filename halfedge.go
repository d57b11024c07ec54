package meshsimplify

// halfEdge is a directed edge: it points at head, knows the next half-edge
// CCW around its face, its oppositely-directed flip partner, and the face
// to its left. Two half-edges sharing an undirected edge always point at
// each other's flip; hash(e) != hash(flip(e)) because hashing is order
// sensitive on (tail, head).
type halfEdge struct {
	tail, head int64
	next       edgeKey
	flip       edgeKey
	face       faceKey
}

func (e *halfEdge) key() edgeKey {
	return edgeKey{tail: e.tail, head: e.head}
}
