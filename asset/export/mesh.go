package export

import (
	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/scene"
)

// Generic mesh header offsets.
const (
	meshGlobalAttrOffset = 0x18
	meshPointAttrOffset  = 0x1C
	meshPrimAttrOffset   = 0x20
	meshPointOffset      = 0x24
	meshPolyOffset       = 0x28
	meshStringOffset     = 0x2C
	meshBBoxOffset       = 0x30
)

// A string table with offsets relative to its start. Identical strings are
// stored once.
type stringTable struct {
	list []string
	offs map[string]int
	size int
}

func newStringTable() *stringTable {
	return &stringTable{offs: make(map[string]int)}
}

// Add s to the table and return its offset.
func (t *stringTable) add(s string) int32 {
	if off, ok := t.offs[s]; ok {
		return int32(off)
	}

	off := t.size
	t.offs[s] = off
	t.list = append(t.list, s)
	t.size += len(s) + 1
	return int32(off)
}

// Emits the complete scene geometry together with all global, point and prim
// attributes.
type meshExporter struct{}

func (meshExporter) Kind() string { return "gmt" }
func (meshExporter) Ext() string  { return "gmt" }

func (e meshExporter) Export(_ *Context, sc *scene.Scene) (*binfile.Writer, error) {
	strTbl := newStringTable()
	glbAttrs := sortAttrsByKind(sc.GlobalAttrs)
	pntAttrs := sortAttrsByKind(sc.PointAttrs)
	primAttrs := sortAttrsByKind(sc.PrimAttrs)

	w := binfile.NewWriter()
	w.WriteTag("GMT")
	w.WriteU32(uint32(len(glbAttrs)))
	w.WriteU32(uint32(len(pntAttrs)))
	w.WriteU32(uint32(len(primAttrs)))
	w.WriteU32(uint32(len(sc.Points)))
	w.WriteU32(uint32(len(sc.Polygons)))
	for off := meshGlobalAttrOffset; off < meshBBoxOffset; off += 4 {
		w.Reserve()
	}
	w.WriteAABB(sc.BBox())

	if len(glbAttrs) != 0 {
		w.PatchCur(meshGlobalAttrOffset)
		writeAttrValues(w, strTbl, glbAttrs, 1)
	}

	w.Align(16)
	w.PatchCur(meshPointOffset)
	for _, p := range sc.Points {
		w.WriteFV(p.Pos[0], p.Pos[1], p.Pos[2], p.W)
	}
	if len(pntAttrs) != 0 {
		w.PatchCur(meshPointAttrOffset)
		writeAttrValues(w, strTbl, pntAttrs, len(sc.Points))
	}

	w.Align(16)
	w.PatchCur(meshPolyOffset)
	top := w.Pos()
	for range sc.Polygons {
		w.Reserve()
	}
	for i, poly := range sc.Polygons {
		w.Patch(top+i*4, uint32(w.Pos()-top))
		w.WriteI32(int32(len(poly.Points)))
		for _, p := range poly.Points {
			w.WriteI32(int32(p))
		}
	}
	if len(primAttrs) != 0 {
		w.PatchCur(meshPrimAttrOffset)
		writeAttrValues(w, strTbl, primAttrs, len(sc.Polygons))
	}

	if len(strTbl.list) != 0 {
		w.Align(16)
		w.PatchCur(meshStringOffset)
		for _, s := range strTbl.list {
			w.WriteString(s)
		}
	}

	return w, nil
}

// Order attributes as ints, floats and then strings, preserving the
// definition order within each kind.
func sortAttrsByKind(attrs []*scene.Attribute) []*scene.Attribute {
	out := make([]*scene.Attribute, 0, len(attrs))
	for _, kind := range []scene.AttrKind{scene.IntKind, scene.FloatKind, scene.StringKind} {
		for _, attr := range attrs {
			if attr.Kind == kind {
				out = append(out, attr)
			}
		}
	}
	return out
}

// Write the attribute info records followed by the interleaved attribute
// values of count elements.
func writeAttrValues(w *binfile.Writer, strTbl *stringTable, attrs []*scene.Attribute, count int) {
	var offs int32
	for _, attr := range attrs {
		w.WriteI32(strTbl.add(attr.Name))
		w.WriteI32(offs)
		offs += int32(attr.Size * 4)
		w.WriteI16(int16(attr.Kind))
		w.WriteI16(int16(attr.Size))
	}

	for i := 0; i < count; i++ {
		for _, attr := range attrs {
			switch v := attr.Values[i].(type) {
			case scene.IntValue:
				for _, c := range v {
					w.WriteI32(c)
				}
			case scene.FloatValue:
				w.WriteFV(v...)
			case scene.StringValue:
				w.WriteI32(strTbl.add(string(v)))
			}
		}
	}
}
