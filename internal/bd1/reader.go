package bd1

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ReadFile reads and decodes a BD1 file. Paths ending in ".zst" are
// zstd-decompressed first.
func ReadFile(path string) (TextureTable, []Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("bd1: read %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, nil, fmt.Errorf("bd1: zstd reader: %w", err)
		}
		defer dec.Close()
		raw, err = dec.DecodeAll(raw, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("bd1: decompress %s: %w", path, err)
		}
	}

	textures, blocks, err := Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("bd1: %s: %w", path, err)
	}
	return textures, blocks, nil
}

// Decode parses a BD1 buffer. On failure nothing is returned but the error.
func Decode(data []byte) (TextureTable, []Block, error) {
	r := &reader{data: data}

	textures := make(TextureTable, TextureSlots)
	for i := 0; i < TextureSlots; i++ {
		name, err := r.readTextureName()
		if err != nil {
			return nil, nil, err
		}
		textures[i] = name
	}

	// The block count is the only big-endian field. Encode writes it
	// little-endian; files from other tools depend on both behaviours.
	countBytes, err := r.take(2, "block count")
	if err != nil {
		return nil, nil, err
	}
	count := int(binary.BigEndian.Uint16(countBytes))
	if len(data)-r.off < count*BlockSize {
		return nil, nil, &ParseError{Offset: r.off, Field: "blocks", Err: ErrTruncated}
	}

	blocks := make([]Block, 0, count)
	for i := 0; i < count; i++ {
		b, err := r.readBlock()
		if err != nil {
			return nil, nil, err
		}
		blocks = append(blocks, b)
	}

	return textures, blocks, nil
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) take(n int, field string) ([]byte, error) {
	if r.off+n > len(r.data) {
		return nil, &ParseError{Offset: r.off, Field: field, Err: ErrTruncated}
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// readTextureName decodes one 31-byte record. Only the first 30 bytes are
// scanned for the NUL terminator.
func (r *reader) readTextureName() (string, error) {
	start := r.off
	rec, err := r.take(TextureRecordLen, "texture filename")
	if err != nil {
		return "", err
	}
	if _, _, err := transform.Bytes(encoding.UTF8Validator, rec); err != nil {
		return "", &ParseError{Offset: start, Field: "texture filename", Err: ErrTextDecode}
	}

	end := TextureNameMax
	for i, b := range rec[:TextureNameMax] {
		if b == 0 {
			end = i
			break
		}
	}
	return strings.ReplaceAll(string(rec[:end]), "\\", "/"), nil
}

func (r *reader) readF32s(dst []float32, field string) error {
	raw, err := r.take(4*len(dst), field)
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return nil
}

// readBlock decodes one 316-byte block record. Components are stored
// planar: all X, then all Y, then all Z, and likewise U then V.
func (r *reader) readBlock() (Block, error) {
	b := NewBlock()

	var comp [UVCount]float32
	for axis, field := range [3]string{"vertex x", "vertex y", "vertex z"} {
		if err := r.readF32s(comp[:VertexCount], field); err != nil {
			return Block{}, err
		}
		for i := 0; i < VertexCount; i++ {
			b.Vertices[i][axis] = comp[i]
		}
	}

	if err := r.readF32s(comp[:], "uv u"); err != nil {
		return Block{}, err
	}
	for i := range b.UVs {
		b.UVs[i].U = comp[i]
	}
	if err := r.readF32s(comp[:], "uv v"); err != nil {
		return Block{}, err
	}
	for i := range b.UVs {
		b.UVs[i].V = comp[i]
	}

	// Texture ids and the enabled flag occupy 4-byte slots; only the
	// first byte of each slot is meaningful.
	slots, err := r.take((FaceCount+1)*4, "face slots")
	if err != nil {
		return Block{}, err
	}
	for i := 0; i < FaceCount; i++ {
		b.TextureIDs[i] = int32(slots[i*4])
	}
	b.Enabled = slots[FaceCount*4] != 0

	return b, nil
}
