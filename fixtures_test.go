package meshsimplify

import "github.com/go-gl/mathgl/mgl64"

const float64EqualityThreshold = 1e-6

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= float64EqualityThreshold
}

// tetrahedronMesh returns a regular-ish tetrahedron, 4 vertices, 4 faces,
// outward-facing CCW winding.
func tetrahedronMesh() IndexedMesh {
	return IndexedMesh{
		Positions: []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		},
		Indices: []uint32{
			0, 2, 1,
			0, 1, 3,
			0, 3, 2,
			1, 2, 3,
		},
		ModelTransform: mgl64.Ident4(),
	}
}

// octahedronMesh returns a regular octahedron, 6 vertices, 8 faces.
func octahedronMesh() IndexedMesh {
	return IndexedMesh{
		Positions: []float32{
			1, 0, 0,
			-1, 0, 0,
			0, 1, 0,
			0, -1, 0,
			0, 0, 1,
			0, 0, -1,
		},
		Indices: []uint32{
			0, 2, 4,
			2, 1, 4,
			1, 3, 4,
			3, 0, 4,
			2, 0, 5,
			1, 2, 5,
			3, 1, 5,
			0, 3, 5,
		},
		ModelTransform: mgl64.Ident4(),
	}
}

// cubeMesh returns a unit cube triangulated into 12 faces, 8 vertices.
func cubeMesh() IndexedMesh {
	return IndexedMesh{
		Positions: []float32{
			0, 0, 0, // 0
			1, 0, 0, // 1
			1, 1, 0, // 2
			0, 1, 0, // 3
			0, 0, 1, // 4
			1, 0, 1, // 5
			1, 1, 1, // 6
			0, 1, 1, // 7
		},
		Indices: []uint32{
			// -Z
			0, 3, 2, 0, 2, 1,
			// +Z
			4, 5, 6, 4, 6, 7,
			// -Y
			0, 1, 5, 0, 5, 4,
			// +Y
			3, 7, 6, 3, 6, 2,
			// -X
			0, 4, 7, 0, 7, 3,
			// +X
			1, 2, 6, 1, 6, 5,
		},
		ModelTransform: mgl64.Ident4(),
	}
}
