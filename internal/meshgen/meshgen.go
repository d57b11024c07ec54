// Package meshgen builds procedurally displaced fixture meshes for tests
// that need more geometry than a hand-written literal mesh can cover.
package meshgen

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

// PerlinSphere builds a UV sphere of the given resolution (longitude
// subdivisions and latitude rings strictly between the two poles) with
// every vertex displaced along its own normal by Perlin noise sampled at
// that position, scaled by amplitude. This gives the contraction scheduler
// a mesh with no flat regions and no exact co-planar quadrics to
// degenerate into, the way a stress-test fixture for a decimation library
// needs to exercise its steady-state heap churn rather than only its
// literal-shape edge cases. Poles are single shared vertices with
// triangle fans, avoiding the degenerate zero-area quads a naive
// duplicated-pole-row UV sphere produces.
//
// The result is returned as flat position/index slices rather than a
// meshsimplify.IndexedMesh: this package sits underneath meshsimplify in
// the dependency graph (meshsimplify's own tests import it to build stress
// fixtures), so it cannot import meshsimplify itself without creating an
// import cycle. Callers wrap the two slices in their own IndexedMesh.
func PerlinSphere(radius float64, longitudes, rings int, amplitude float64, seed int64) (positions []float32, indices []uint32) {
	if longitudes < 3 {
		longitudes = 3
	}
	if rings < 1 {
		rings = 1
	}

	noise := perlin.NewPerlin(2, 2, 3, seed)
	displace := func(nx, ny, nz float64) mgl64.Vec3 {
		n := noise.Noise3D(nx*2, ny*2, nz*2)
		r := radius + amplitude*n
		return mgl64.Vec3{r * nx, r * ny, r * nz}
	}

	var points []mgl64.Vec3
	northPole := 0
	points = append(points, displace(0, 1, 0))

	ringStart := make([]int, rings)
	for i := 0; i < rings; i++ {
		theta := math.Pi * float64(i+1) / float64(rings+1)
		ringStart[i] = len(points)
		for lon := 0; lon < longitudes; lon++ {
			phi := 2 * math.Pi * float64(lon) / float64(longitudes)
			nx := math.Sin(theta) * math.Cos(phi)
			ny := math.Cos(theta)
			nz := math.Sin(theta) * math.Sin(phi)
			points = append(points, displace(nx, ny, nz))
		}
	}
	southPole := len(points)
	points = append(points, displace(0, -1, 0))

	tri := func(a, b, c int) {
		indices = append(indices, uint32(a), uint32(b), uint32(c))
	}

	firstRing := ringStart[0]
	for lon := 0; lon < longitudes; lon++ {
		next := (lon + 1) % longitudes
		tri(northPole, firstRing+lon, firstRing+next)
	}

	for i := 0; i < rings-1; i++ {
		a0, a1 := ringStart[i], ringStart[i+1]
		for lon := 0; lon < longitudes; lon++ {
			next := (lon + 1) % longitudes
			tri(a0+lon, a1+lon, a1+next)
			tri(a0+lon, a1+next, a0+next)
		}
	}

	lastRing := ringStart[rings-1]
	for lon := 0; lon < longitudes; lon++ {
		next := (lon + 1) % longitudes
		tri(southPole, lastRing+next, lastRing+lon)
	}

	positions = make([]float32, 0, len(points)*3)
	for _, p := range points {
		positions = append(positions, float32(p[0]), float32(p[1]), float32(p[2]))
	}

	return positions, indices
}
