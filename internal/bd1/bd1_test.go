package bd1

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// rawFile builds a BD1 buffer by hand, independent of Encode. The block
// count is written big-endian, the way Decode expects it.
func rawFile(t *testing.T, names []string, blocks []Block) []byte {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < TextureSlots; i++ {
		var rec [TextureRecordLen]byte
		if i < len(names) {
			copy(rec[:], names[i])
		}
		buf.Write(rec[:])
	}
	binary.Write(&buf, binary.BigEndian, uint16(len(blocks)))
	for _, b := range blocks {
		for axis := 0; axis < 3; axis++ {
			for _, v := range b.Vertices {
				binary.Write(&buf, binary.LittleEndian, v[axis])
			}
		}
		for _, uv := range b.UVs {
			binary.Write(&buf, binary.LittleEndian, uv.U)
		}
		for _, uv := range b.UVs {
			binary.Write(&buf, binary.LittleEndian, uv.V)
		}
		for _, id := range b.TextureIDs {
			buf.Write([]byte{byte(id), 0, 0, 0})
		}
		if b.Enabled {
			buf.Write([]byte{1, 0, 0, 0})
		} else {
			buf.Write([]byte{0, 0, 0, 0})
		}
	}
	return buf.Bytes()
}

// sampleBlock returns a block with distinct values in every field.
func sampleBlock(seed float32, enabled bool) Block {
	b := NewBlock()
	for i := range b.Vertices {
		f := seed + float32(i)
		b.Vertices[i] = mgl32.Vec3{f, f + 0.25, -f}
	}
	for i := range b.UVs {
		b.UVs[i] = UV{U: float32(i) / 24, V: 1 - float32(i)/24}
	}
	for i := range b.TextureIDs {
		b.TextureIDs[i] = int32(i)
	}
	b.Enabled = enabled
	return b
}

var sampleNames = []string{
	"wall.bmp", "floor.bmp", "ceil.bmp", "door.bmp", "glass.bmp",
	"crate.bmp", "metal.bmp", "grass.bmp", "sky.bmp", "water.bmp",
}
