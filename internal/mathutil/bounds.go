package mathutil

import "github.com/go-gl/mathgl/mgl32"

// Bounds returns the axis-aligned min and max corners of pts.
// Both are zero when pts is empty.
func Bounds(pts []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if len(pts) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < lo[k] {
				lo[k] = p[k]
			}
			if p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	return lo, hi
}
