package meshsimplify

// edgeKey is the content hash of a directed half-edge: an ordered pair of
// vertex IDs. Keyed maps use it directly rather than hashing through a
// generic hash/fnv writer: the value tuple itself is the map key, not a
// digest of it.
type edgeKey struct {
	tail, head int64
}

func hashEdge(tail, head int64) edgeKey {
	return edgeKey{tail: tail, head: head}
}

// canonicalKey returns the content hash of whichever of (a,b)/(b,a) has the
// smaller head vertex ID, matching the "canonical half-edge" rule: of the
// two half-edges representing one undirected edge, the one whose head has
// the smaller ID.
func canonicalKey(a, b int64) edgeKey {
	if a < b {
		return edgeKey{tail: b, head: a}
	}
	return edgeKey{tail: a, head: b}
}

// faceKey identifies a face by its three vertex IDs in canonical rotation
// (smallest ID first, winding preserved).
type faceKey [3]int64

func canonicalFace(a, b, c int64) faceKey {
	switch {
	case a <= b && a <= c:
		return faceKey{a, b, c}
	case b <= a && b <= c:
		return faceKey{b, c, a}
	default:
		return faceKey{c, a, b}
	}
}
