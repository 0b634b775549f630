package bd1

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Layout constants for the BD1 level format.
const (
	TextureSlots     = 10
	TextureRecordLen = 31 // bytes per texture filename record
	TextureNameMax   = 30 // the 31st record byte is reserved

	VertexCount = 8
	UVCount     = 24
	FaceCount   = 6

	HeaderSize = TextureSlots*TextureRecordLen + 2                 // 312
	BlockSize  = VertexCount*4*3 + UVCount*4*2 + FaceCount*4 + 4 // 316
)

// UV is a texture coordinate pair.
type UV struct {
	U, V float32
}

func (uv UV) String() string {
	return fmt.Sprintf("(%g,%g)", uv.U, uv.V)
}

// Block is one cuboid of level geometry. Fixed-size arrays make copies deep.
type Block struct {
	Vertices   [VertexCount]mgl32.Vec3
	UVs        [UVCount]UV
	TextureIDs [FaceCount]int32 // indexes into the texture table, unchecked
	Enabled    bool
}

// NewBlock returns a zeroed block with Enabled set.
func NewBlock() Block {
	return Block{Enabled: true}
}

// TextureTable maps texture slot (0–9) to filename.
type TextureTable map[int]string

// Keys returns the table keys in ascending order.
func (t TextureTable) Keys() []int {
	keys := make([]int, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Slot returns the filename in slot i and whether the slot is set.
func (t TextureTable) Slot(i int) (string, bool) {
	name, ok := t[i]
	return name, ok
}

// EncodedSize is the exact byte length of a file holding n blocks.
func EncodedSize(n int) int {
	return HeaderSize + BlockSize*n
}
