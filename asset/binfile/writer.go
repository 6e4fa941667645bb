package binfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/achilleasa/assetpack/types"
	"github.com/chewxy/math32"
)

// ByteOrder is used for every value written by this package. The produced
// files do not describe their own endianness so all of them share this one.
var ByteOrder = binary.LittleEndian

// The byte used by Align to pad the stream. It differs from zero so padding
// stands out from real data in a hex dump.
const FillByte byte = 0xFF

// Writer is an append-only binary buffer with a write cursor. Values whose
// content is only known after later writes are handled by reserving a slot,
// remembering its offset and patching it once the value is available.
type Writer struct {
	buf []byte
	pos int
}

// Create a new empty writer.
func NewWriter() *Writer {
	return &Writer{
		buf: make([]byte, 0, 4096),
	}
}

// Get the current cursor position.
func (w *Writer) Pos() int {
	return w.pos
}

// Get the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Get the written bytes. The returned slice aliases the writer's storage.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Write raw bytes at the cursor, overwriting existing data and growing the
// buffer as needed.
func (w *Writer) Write(data []byte) (int, error) {
	w.put(data)
	return len(data), nil
}

func (w *Writer) put(data []byte) {
	end := w.pos + len(data)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:end], data)
	w.pos = end
}

func (w *Writer) WriteI8(v int8) {
	w.WriteU8(uint8(v))
}

func (w *Writer) WriteU8(v uint8) {
	w.put([]byte{v})
}

func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	ByteOrder.PutUint16(b[:], v)
	w.put(b[:])
}

func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	ByteOrder.PutUint32(b[:], v)
	w.put(b[:])
}

func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math32.Float32bits(v))
}

// Write a float as a 16-bit half float. See HalfFromFloat32 for the
// precision caveats.
func (w *Writer) WriteF16(v float32) {
	w.WriteU16(HalfFromFloat32(v))
}

// Write a list of floats.
func (w *Writer) WriteFV(v ...float32) {
	for _, f := range v {
		w.WriteF32(f)
	}
}

// Write a vector as 4 floats padded with a homogeneous 1.0.
func (w *Writer) WriteQVec(v types.Vec3) {
	w.WriteFV(v[0], v[1], v[2], 1.0)
}

// Write up to 4 floats from v, padding the remaining components with zeroes.
func (w *Writer) WriteQV(v ...float32) {
	n := len(v)
	if n > 4 {
		n = 4
	}
	w.WriteFV(v[:n]...)
	for i := n; i < 4; i++ {
		w.WriteF32(0)
	}
}

// Write a bounding box as two 16-byte vectors.
func (w *Writer) WriteAABB(b types.BBox) {
	w.WriteQVec(b.Min)
	w.WriteQVec(b.Max)
}

// Write a 4 byte tag. Shorter tags are zero padded and longer tags are
// truncated.
func (w *Writer) WriteTag(tag string) {
	var b [4]byte
	copy(b[:], tag)
	w.put(b[:])
}

// Write the bytes of s followed by a zero terminator.
func (w *Writer) WriteString(s string) {
	w.put([]byte(s))
	w.WriteU8(0)
}

// Write a zero placeholder for a 32-bit value that will be patched later and
// return its offset.
func (w *Writer) Reserve() int {
	offset := w.pos
	w.WriteU32(0)
	return offset
}

// Overwrite the 32-bit value at offset. The cursor position is not affected.
// The target bytes must already have been written.
func (w *Writer) Patch(offset int, val uint32) {
	if offset < 0 || offset+4 > len(w.buf) {
		panic(fmt.Sprintf("binfile: patch offset 0x%x outside written range [0, 0x%x)", offset, len(w.buf)))
	}

	restorePos := w.pos
	w.pos = offset
	w.WriteU32(val)
	w.pos = restorePos
}

// Patch offset with the current cursor position.
func (w *Writer) PatchCur(offset int) {
	w.Patch(offset, uint32(w.pos))
}

// Pad with FillByte until the cursor is a multiple of boundary.
func (w *Writer) Align(boundary int) {
	if boundary <= 1 {
		return
	}
	for w.pos%boundary != 0 {
		w.WriteU8(FillByte)
	}
}

// Write the buffer contents to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	n, err := out.Write(w.buf)
	return int64(n), err
}

// Save buffer contents to a file. The file handle is always released; a
// failure to close is reported if the write itself succeeded.
func (w *Writer) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("binfile: could not create %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("binfile: could not close %q: %w", path, closeErr)
		}
	}()

	if _, err = w.WriteTo(f); err != nil {
		return fmt.Errorf("binfile: could not write %q: %w", path, err)
	}
	return nil
}
