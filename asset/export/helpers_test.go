package export

import (
	"testing"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/types"
	"github.com/stretchr/testify/require"
)

// Wraps a binfile.Reader and fails the test on out of bounds reads.
type fileReader struct {
	t *testing.T
	r *binfile.Reader
}

func readBack(t *testing.T, w *binfile.Writer) fileReader {
	return fileReader{t: t, r: binfile.NewReader(w.Bytes())}
}

func (f fileReader) tag() string {
	v, err := f.r.Tag()
	require.NoError(f.t, err)
	return v
}

// Read a 4 byte tag at off with trailing zeroes removed.
func (f fileReader) tag4(off int) string {
	var b []byte
	for i := 0; i < 4; i++ {
		v, err := f.r.U8(off + i)
		require.NoError(f.t, err)
		if v != 0 {
			b = append(b, v)
		}
	}
	return string(b)
}

func (f fileReader) i8(off int) int8 {
	v, err := f.r.I8(off)
	require.NoError(f.t, err)
	return v
}

func (f fileReader) i16(off int) int16 {
	v, err := f.r.I16(off)
	require.NoError(f.t, err)
	return v
}

func (f fileReader) u16(off int) uint16 {
	v, err := f.r.U16(off)
	require.NoError(f.t, err)
	return v
}

func (f fileReader) i32(off int) int32 {
	v, err := f.r.I32(off)
	require.NoError(f.t, err)
	return v
}

func (f fileReader) u32(off int) uint32 {
	v, err := f.r.U32(off)
	require.NoError(f.t, err)
	return v
}

func (f fileReader) f32(off int) float32 {
	v, err := f.r.F32(off)
	require.NoError(f.t, err)
	return v
}

func (f fileReader) fv(off, count int) []float32 {
	out := make([]float32, count)
	for i := range out {
		out[i] = f.f32(off + i*4)
	}
	return out
}

func (f fileReader) aabb(off int) types.BBox {
	v, err := f.r.AABB(off)
	require.NoError(f.t, err)
	return v
}

func (f fileReader) str(off int) string {
	v, err := f.r.CString(off)
	require.NoError(f.t, err)
	return v
}

// Add points at the given positions and return their indices.
func addPoints(sc *scene.Scene, positions ...types.Vec3) []int {
	out := make([]int, len(positions))
	for i, pos := range positions {
		out[i] = sc.AddPoint(scene.Point{Pos: pos, W: 1})
	}
	return out
}

func addPolygon(sc *scene.Scene, material string, points ...int) int {
	return sc.AddPolygon(scene.Polygon{Points: points, Material: material})
}

func mustAttr(t *testing.T, sc *scene.Scene, class scene.AttrClass, name string, kind scene.AttrKind, size int) *scene.Attribute {
	attr, err := sc.AddAttribute(class, name, kind, size)
	require.NoError(t, err)
	return attr
}
