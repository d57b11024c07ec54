package meshsimplify

import "github.com/go-gl/mathgl/mgl64"

// quadricEpsilon gates the closed-form solve for the optimal contraction
// point; below it the quadric's upper 3x3 block (or d term) is treated as
// singular and the midpoint fallback is used instead. Stated against
// 32-bit float epsilon, per the error metric this quadric approximates.
const quadricEpsilon = 1.1920929e-7

// Quadric is the 4x4 symmetric error matrix of Garland-Heckbert, stored as
// its 10 independent upper-triangular entries. The layout and field order
// follow the compact SymMat4 representation nat-n-shapeset/geom uses for
// its own per-face error quadric, generalised here from 2-D border
// simplification to full 3-D triangle meshes.
type Quadric struct {
	aa, ab, ac, ad float64
	bb, bc, bd     float64
	cc, cd         float64
	dd             float64
}

// planeQuadric builds the rank-1 quadric of a single plane equation
// (a,b,c,d), i.e. the outer product of the plane vector with itself.
func planeQuadric(p [4]float64) Quadric {
	a, b, c, d := p[0], p[1], p[2], p[3]
	return Quadric{
		aa: a * a, ab: a * b, ac: a * c, ad: a * d,
		bb: b * b, bc: b * c, bd: b * d,
		cc: c * c, cd: c * d,
		dd: d * d,
	}
}

// Add returns the sum of two quadrics, exploiting additivity: the quadric
// of a merged vertex is exactly the sum of the quadrics of the vertices it
// replaces, with no need to re-integrate over incident faces.
func (q Quadric) Add(o Quadric) Quadric {
	return Quadric{
		aa: q.aa + o.aa, ab: q.ab + o.ab, ac: q.ac + o.ac, ad: q.ad + o.ad,
		bb: q.bb + o.bb, bc: q.bc + o.bc, bd: q.bd + o.bd,
		cc: q.cc + o.cc, cd: q.cd + o.cd,
		dd: q.dd + o.dd,
	}
}

// mat3 returns the upper 3x3 block A of the quadric.
func (q Quadric) mat3() mgl64.Mat3 {
	return mgl64.Mat3{
		q.aa, q.ab, q.ac,
		q.ab, q.bb, q.bc,
		q.ac, q.bc, q.cc,
	}
}

// vecB returns the 3-vector b = Q[0:3,3].
func (q Quadric) vecB() mgl64.Vec3 {
	return mgl64.Vec3{q.ad, q.bd, q.cd}
}

// cost evaluates the quadratic form (p,1)^T Q (p,1) at point p.
func (q Quadric) cost(p mgl64.Vec3) float64 {
	x, y, z := p[0], p[1], p[2]
	return x*x*q.aa + 2*x*y*q.ab + 2*x*z*q.ac + 2*x*q.ad +
		y*y*q.bb + 2*y*z*q.bc + 2*y*q.bd +
		z*z*q.cc + 2*z*q.cd +
		q.dd
}

// optimalPoint solves A p = -b for the quadric-minimising replacement
// position of an edge between p0 and p1. When A or d is numerically
// singular it falls back to the edge midpoint with zero reported cost,
// intentionally biasing the scheduler toward degenerate-quadric edges so
// near-planar regions decimate first.
func (q Quadric) optimalPoint(p0, p1 mgl64.Vec3) (pos mgl64.Vec3, cost float64) {
	a := q.mat3()
	det := a.Det()
	if absf(det) >= quadricEpsilon && absf(q.dd) >= quadricEpsilon {
		b := q.vecB()
		inv := a.Inv()
		p := inv.Mul3x1(b.Mul(-1))
		return p, q.cost(p)
	}
	mid := p0.Add(p1).Mul(0.5)
	return mid, 0
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
