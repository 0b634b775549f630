package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RotAxis returns a rotation about axis by theta·|axis| radians, so a
// scaled axis also scales the angle. A zero axis yields identity.
func RotAxis(theta float32, axis mgl32.Vec3) mgl32.Mat4 {
	n := axis.Len()
	if n == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(theta*n, axis.Mul(1/n))
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float32) float32 {
	return float32(float64(d) * math.Pi / 180)
}
