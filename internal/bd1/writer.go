package bd1

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Encode serializes blocks and the texture table into the BD1 layout.
// Content is never validated: surplus table keys are dropped, long
// filenames clipped to 30 bytes, and texture ids narrowed to one byte.
func Encode(blocks []Block, textures TextureTable) []byte {
	buf := make([]byte, 0, EncodedSize(len(blocks)))
	buf = appendTextureTable(buf, textures)

	// Little-endian, while Decode reads big-endian. Kept for byte
	// compatibility with existing files; see DESIGN.md before changing.
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(blocks)))

	for i := range blocks {
		buf = appendBlock(buf, &blocks[i])
	}
	return buf
}

// WriteFile encodes and writes a BD1 file. Paths ending in ".zst" are
// zstd-compressed.
func WriteFile(path string, blocks []Block, textures TextureTable) (err error) {
	data := Encode(blocks, textures)

	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("bd1: zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bd1: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("bd1: close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("bd1: write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("bd1: write %s: %w", path, err)
	}
	return nil
}

// appendTextureTable emits the ten lowest keys in ascending order, then
// pads with empty records.
func appendTextureTable(buf []byte, textures TextureTable) []byte {
	written := 0
	for _, k := range textures.Keys() {
		if written == TextureSlots {
			break
		}
		var rec [TextureRecordLen]byte
		copy(rec[:TextureNameMax], textures[k])
		buf = append(buf, rec[:]...)
		written++
	}
	for ; written < TextureSlots; written++ {
		buf = append(buf, make([]byte, TextureRecordLen)...)
	}
	return buf
}

func appendBlock(buf []byte, b *Block) []byte {
	for axis := 0; axis < 3; axis++ {
		for i := range b.Vertices {
			buf = appendF32(buf, b.Vertices[i][axis])
		}
	}
	for i := range b.UVs {
		buf = appendF32(buf, b.UVs[i].U)
	}
	for i := range b.UVs {
		buf = appendF32(buf, b.UVs[i].V)
	}

	for _, id := range b.TextureIDs {
		buf = append(buf, uint8(id), 0, 0, 0)
	}
	var enabled byte
	if b.Enabled {
		enabled = 1
	}
	return append(buf, enabled, 0, 0, 0)
}

func appendF32(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
}
