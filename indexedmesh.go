package meshsimplify

import "github.com/go-gl/mathgl/mgl64"

// IndexedMesh is the boundary type the core exchanges with the rest of the
// world: a loader builds one, Simplify consumes and produces one, a
// renderer consumes the result. Positions/Normals/TexCoords are flat
// float32 arrays (3, 3, and 2 components per vertex respectively) - the
// same layout a GPU upload or a renderer's vertex buffer expects.
//
// Either Indices has length divisible by 3 and indexes into Positions, or
// (if Indices is empty) Positions itself is taken as a flat triangle list
// whose length is divisible by 3. Normals and TexCoords, if present, must
// align element-for-element with Positions.
type IndexedMesh struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint32

	ModelTransform mgl64.Mat4
}

// VertexCount returns the number of distinct vertices (Positions length / 3).
func (m IndexedMesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles described by Indices, or
// by Positions directly when Indices is empty.
func (m IndexedMesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 9
}

func (m IndexedMesh) position(i int) mgl64.Vec3 {
	o := i * 3
	return mgl64.Vec3{float64(m.Positions[o]), float64(m.Positions[o+1]), float64(m.Positions[o+2])}
}

// triangleVertexIndices returns the three vertex indices of triangle t.
func (m IndexedMesh) triangleVertexIndices(t int) (int, int, int) {
	if len(m.Indices) > 0 {
		o := t * 3
		return int(m.Indices[o]), int(m.Indices[o+1]), int(m.Indices[o+2])
	}
	o := t * 3
	return o, o + 1, o + 2
}

// Bounds returns the axis-aligned bounding box of Positions. Informational
// only; never consulted by Simplify itself.
func (m IndexedMesh) Bounds() (min, max mgl64.Vec3) {
	if m.VertexCount() == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	min = m.position(0)
	max = min
	for i := 1; i < m.VertexCount(); i++ {
		p := m.position(i)
		for a := 0; a < 3; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	return min, max
}

func (m IndexedMesh) validate() error {
	if len(m.Positions) == 0 {
		return newError(InvalidInput, "validate", errEmptyPositions)
	}
	if len(m.Indices) > 0 {
		if len(m.Indices)%3 != 0 {
			return newError(InvalidInput, "validate", errNonTriangular)
		}
		n := m.VertexCount()
		for _, idx := range m.Indices {
			if int(idx) >= n {
				return newError(InvalidInput, "validate", errIndexOutOfRange)
			}
		}
	} else if len(m.Positions)%9 != 0 {
		return newError(InvalidInput, "validate", errNonTriangular)
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		return newError(InvalidInput, "validate", errAttributeMismatch)
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords)/2 != m.VertexCount() {
		return newError(InvalidInput, "validate", errAttributeMismatch)
	}
	return nil
}
