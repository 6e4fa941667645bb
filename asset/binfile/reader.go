package binfile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/achilleasa/assetpack/types"
	"github.com/chewxy/math32"
)

// Reader provides bounds-checked random access to a file produced by Writer.
type Reader struct {
	data []byte
}

// Create a reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Load a file into a reader.
func ReadFile(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("binfile: could not read %q: %w", path, err)
	}
	return NewReader(data), nil
}

// Get the size of the underlying data.
func (r *Reader) Len() int {
	return len(r.data)
}

func (r *Reader) slice(offset, size int) ([]byte, error) {
	if offset < 0 || offset+size > len(r.data) {
		return nil, fmt.Errorf("binfile: read of %d bytes at 0x%x is out of bounds (size 0x%x)", size, offset, len(r.data))
	}
	return r.data[offset : offset+size], nil
}

// Read the 4 byte tag at the start of the file with trailing zeroes removed.
func (r *Reader) Tag() (string, error) {
	b, err := r.slice(0, 4)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(b, "\x00")), nil
}

func (r *Reader) U8(offset int) (uint8, error) {
	b, err := r.slice(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) I8(offset int) (int8, error) {
	v, err := r.U8(offset)
	return int8(v), err
}

func (r *Reader) U16(offset int) (uint16, error) {
	b, err := r.slice(offset, 2)
	if err != nil {
		return 0, err
	}
	return ByteOrder.Uint16(b), nil
}

func (r *Reader) I16(offset int) (int16, error) {
	v, err := r.U16(offset)
	return int16(v), err
}

func (r *Reader) U32(offset int) (uint32, error) {
	b, err := r.slice(offset, 4)
	if err != nil {
		return 0, err
	}
	return ByteOrder.Uint32(b), nil
}

func (r *Reader) I32(offset int) (int32, error) {
	v, err := r.U32(offset)
	return int32(v), err
}

func (r *Reader) F32(offset int) (float32, error) {
	v, err := r.U32(offset)
	return math32.Float32frombits(v), err
}

// Read a bounding box written by Writer.WriteAABB.
func (r *Reader) AABB(offset int) (types.BBox, error) {
	var b types.BBox
	for i := 0; i < 3; i++ {
		v, err := r.F32(offset + i*4)
		if err != nil {
			return b, err
		}
		b.Min[i] = v

		if v, err = r.F32(offset + 16 + i*4); err != nil {
			return b, err
		}
		b.Max[i] = v
	}
	return b, nil
}

// Read a zero terminated string.
func (r *Reader) CString(offset int) (string, error) {
	if offset < 0 || offset >= len(r.data) {
		return "", fmt.Errorf("binfile: string offset 0x%x is out of bounds (size 0x%x)", offset, len(r.data))
	}
	end := bytes.IndexByte(r.data[offset:], 0)
	if end < 0 {
		return "", fmt.Errorf("binfile: unterminated string at 0x%x", offset)
	}
	return string(r.data[offset : offset+end]), nil
}
