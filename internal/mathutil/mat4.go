package mathutil

import "github.com/go-gl/mathgl/mgl32"

// FromRows builds a 4×4 matrix from 16 values stored row-major.
// mgl32 matrices are column-major.
func FromRows(rows [16]float32) mgl32.Mat4 {
	var m mgl32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, rows[r*4+c])
		}
	}
	return m
}

// TransformVector applies the linear part of m to v (w=0). The
// translation column has no effect.
func TransformVector(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// IsIdentity checks if the matrix is approximately identity.
func IsIdentity(m mgl32.Mat4) bool {
	id := mgl32.Ident4()
	for i := range m {
		d := m[i] - id[i]
		if d > 1e-6 || d < -1e-6 {
			return false
		}
	}
	return true
}
