// Package manipulator edits BD1 level geometry in memory: it loads blocks,
// accumulates an affine transform and bakes it into vertex positions.
//
// A Manipulator is not safe for concurrent use. Use one per editing session.
package manipulator

import (
	"github.com/go-gl/mathgl/mgl32"

	"bd1-manipulator/internal/bd1"
	"bd1-manipulator/internal/mathutil"
)

// Manipulator owns a texture table, the blocks and an accumulated transform.
type Manipulator struct {
	Textures bd1.TextureTable
	Blocks   []bd1.Block

	transform mgl32.Mat4
}

// New creates an empty manipulator with an identity transform.
func New() *Manipulator {
	return &Manipulator{
		Textures:  make(bd1.TextureTable),
		transform: mgl32.Ident4(),
	}
}

// Load reads a BD1 file into a new manipulator.
func Load(path string) (*Manipulator, error) {
	textures, blocks, err := bd1.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Manipulator{Textures: textures, Blocks: blocks, transform: mgl32.Ident4()}, nil
}

// FromBytes decodes an in-memory BD1 buffer into a new manipulator.
func FromBytes(data []byte) (*Manipulator, error) {
	textures, blocks, err := bd1.Decode(data)
	if err != nil {
		return nil, err
	}
	return &Manipulator{Textures: textures, Blocks: blocks, transform: mgl32.Ident4()}, nil
}

// Save writes the blocks and texture table to path.
func (m *Manipulator) Save(path string) error {
	return bd1.WriteFile(path, m.Blocks, m.Textures)
}

// Bytes returns the encoded file contents.
func (m *Manipulator) Bytes() []byte {
	return bd1.Encode(m.Blocks, m.Textures)
}

// Transform returns the accumulated transform.
func (m *Manipulator) Transform() mgl32.Mat4 {
	return m.transform
}

// ResetTransform sets the accumulated transform back to identity. Blocks
// already baked by Apply are unchanged.
func (m *Manipulator) ResetTransform() {
	m.transform = mgl32.Ident4()
}

// Compose right-multiplies the accumulated transform by mat, so each call
// acts in the frame left by the previous ones.
func (m *Manipulator) Compose(mat mgl32.Mat4) *Manipulator {
	m.transform = m.transform.Mul4(mat)
	return m
}

func (m *Manipulator) Translate(x, y, z float32) *Manipulator {
	return m.Compose(mgl32.Translate3D(x, y, z))
}

// RotateX rotates about the X axis by theta radians.
func (m *Manipulator) RotateX(theta float32) *Manipulator {
	return m.Compose(mgl32.HomogRotate3DX(theta))
}

// RotateY rotates about the Y axis by theta radians.
func (m *Manipulator) RotateY(theta float32) *Manipulator {
	return m.Compose(mgl32.HomogRotate3DY(theta))
}

// RotateZ rotates about the Z axis by theta radians.
func (m *Manipulator) RotateZ(theta float32) *Manipulator {
	return m.Compose(mgl32.HomogRotate3DZ(theta))
}

// Rotate rotates about an arbitrary axis. The angle is theta scaled by the
// axis length.
func (m *Manipulator) Rotate(theta, axisX, axisY, axisZ float32) *Manipulator {
	return m.Compose(mathutil.RotAxis(theta, mgl32.Vec3{axisX, axisY, axisZ}))
}

func (m *Manipulator) Scale(sx, sy, sz float32) *Manipulator {
	return m.Compose(mgl32.Scale3D(sx, sy, sz))
}

// Apply bakes the accumulated transform into every vertex.
//
// NOTE: vertices are transformed as direction vectors (w=0), not points.
// Translation therefore has no effect here. Existing tools depend on this
// output; do not switch to point semantics.
func (m *Manipulator) Apply() {
	for i := range m.Blocks {
		b := &m.Blocks[i]
		for j := range b.Vertices {
			b.Vertices[j] = mathutil.TransformVector(m.transform, b.Vertices[j])
		}
	}
}

// Bounds returns the axis-aligned box around all vertices of all blocks.
func (m *Manipulator) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	pts := make([]mgl32.Vec3, 0, len(m.Blocks)*bd1.VertexCount)
	for i := range m.Blocks {
		pts = append(pts, m.Blocks[i].Vertices[:]...)
	}
	return mathutil.Bounds(pts)
}
