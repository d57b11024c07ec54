package meshsimplify

import "github.com/go-gl/mathgl/mgl64"

// triFace is an ordered triple of vertex IDs stored in canonical rotation
// (smallest ID first, CCW order preserved), plus a cached unit normal and
// surface area. Canonicalisation rotates rather than sorts so that winding,
// and therefore the sign of Normal, is never disturbed.
type triFace struct {
	v0, v1, v2 int64
	Normal     mgl64.Vec3
	Area       float64
}

func newTriFace(a, b, c int64, pa, pb, pc mgl64.Vec3) (*triFace, error) {
	key := canonicalFace(a, b, c)
	va, vb, vc := pa, pb, pc
	switch key {
	case faceKey{a, b, c}:
		// already canonical
	case faceKey{b, c, a}:
		va, vb, vc = pb, pc, pa
	default:
		va, vb, vc = pc, pa, pb
	}

	e1 := vb.Sub(va)
	e2 := vc.Sub(va)
	cross := e1.Cross(e2)
	length := cross.Len()
	if length <= 0 {
		return nil, newError(DegenerateFace, "newTriFace", nil)
	}

	return &triFace{
		v0:     key[0],
		v1:     key[1],
		v2:     key[2],
		Normal: cross.Mul(1.0 / length),
		Area:   0.5 * length,
	}, nil
}

// plane4 returns the homogeneous plane equation (a,b,c,d) of the face,
// with (a,b,c) the unit normal and d chosen so ax+by+cz+d = 0 on the face.
func (f *triFace) plane4(posOf func(int64) mgl64.Vec3) [4]float64 {
	p := posOf(f.v0)
	n := f.Normal
	d := -(n[0]*p[0] + n[1]*p[1] + n[2]*p[2])
	return [4]float64{n[0], n[1], n[2], d}
}

func (f *triFace) vertices() [3]int64 {
	return [3]int64{f.v0, f.v1, f.v2}
}

func (f *triFace) key() faceKey {
	return faceKey{f.v0, f.v1, f.v2}
}
