package meshsimplify

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestQuadricAdditivity(t *testing.T) {
	q1 := planeQuadric([4]float64{0, 0, 1, -1})
	q2 := planeQuadric([4]float64{1, 0, 0, -2})

	sum := q1.Add(q2)
	want := Quadric{
		aa: q1.aa + q2.aa, ab: q1.ab + q2.ab, ac: q1.ac + q2.ac, ad: q1.ad + q2.ad,
		bb: q1.bb + q2.bb, bc: q1.bc + q2.bc, bd: q1.bd + q2.bd,
		cc: q1.cc + q2.cc, cd: q1.cd + q2.cd,
		dd: q1.dd + q2.dd,
	}
	if sum != want {
		t.Errorf("Add() = %+v, want %+v", sum, want)
	}
}

func TestQuadricCostIsZeroOnThePlane(t *testing.T) {
	// Plane z=1: a=0,b=0,c=1,d=-1. Any point with z=1 has zero cost.
	q := planeQuadric([4]float64{0, 0, 1, -1})
	p := mgl64.Vec3{5, -3, 1}
	cost := q.cost(p)
	if !almostEqual(cost, 0) {
		t.Errorf("cost(%v) = %f, want 0", p, cost)
	}
}

func TestQuadricOptimalPointFallsBackOnSingularSystem(t *testing.T) {
	// A single plane's quadric has a rank-1 upper block: singular.
	q := planeQuadric([4]float64{0, 0, 1, -1})
	p0 := mgl64.Vec3{0, 0, 0}
	p1 := mgl64.Vec3{2, 0, 0}

	pos, cost := q.optimalPoint(p0, p1)
	want := p0.Add(p1).Mul(0.5)
	if !almostEqual(float64(pos[0]), float64(want[0])) ||
		!almostEqual(float64(pos[1]), float64(want[1])) ||
		!almostEqual(float64(pos[2]), float64(want[2])) {
		t.Errorf("optimalPoint() = %v, want midpoint %v", pos, want)
	}
	if cost != 0 {
		t.Errorf("fallback cost = %f, want 0", cost)
	}
}

func TestQuadricOptimalPointSolvesWellConditionedSystem(t *testing.T) {
	// Three mutually orthogonal planes x=1, y=2, z=3 pin down (1,2,3)
	// exactly, with zero cost there. Their d terms are non-zero, so the
	// closed-form solve runs rather than the midpoint fallback (the
	// endpoints' midpoint is (0,0,0)).
	q := planeQuadric([4]float64{1, 0, 0, -1}).
		Add(planeQuadric([4]float64{0, 1, 0, -2})).
		Add(planeQuadric([4]float64{0, 0, 1, -3}))

	pos, cost := q.optimalPoint(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{-1, -1, -1})
	if !almostEqual(float64(pos[0]), 1) || !almostEqual(float64(pos[1]), 2) || !almostEqual(float64(pos[2]), 3) {
		t.Errorf("optimalPoint() = %v, want (1,2,3)", pos)
	}
	if !almostEqual(cost, 0) {
		t.Errorf("cost at optimum = %f, want ~0", cost)
	}
}
