package export

import (
	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/scene"
)

// Room model header offsets.
const (
	roomGroupOffset  = 0x14
	roomVertexOffset = 0x18
	roomIndexOffset  = 0x1C
	roomBBoxOffset   = 0x20
	roomHeaderSize   = 0x40
)

// Emits static room geometry: materials, triangle groups with bounds,
// colored vertices and 16-bit indices.
type roomExporter struct{}

func (roomExporter) Kind() string { return "rmd" }
func (roomExporter) Ext() string  { return "rmd" }

func (e roomExporter) Export(ctx *Context, sc *scene.Scene) (*binfile.Writer, error) {
	mtls := newMaterialList()
	var indices []uint16
	groups, err := collectTriangleGroups(ctx, e.Kind(), sc, mtls, &indices)
	if err != nil {
		return nil, err
	}

	w := binfile.NewWriter()
	w.WriteTag("RMD")
	w.WriteU32(uint32(len(mtls.sceneIDs)))
	w.WriteU32(uint32(len(groups)))
	w.WriteU32(uint32(len(sc.Points)))
	w.WriteU32(uint32(len(indices)))
	w.Reserve() // -> groups
	w.Reserve() // -> vertices
	w.Reserve() // -> indices
	w.WriteAABB(sc.BBox())

	mtls.writeParams(w, sc)
	mtlNamePos := mtls.reserveNames(w)

	w.Align(16)
	w.PatchCur(roomGroupOffset)
	for _, grp := range groups {
		w.WriteAABB(grp.bbox)
		w.WriteI32(int32(grp.mtlID))
		w.WriteU32(uint32(grp.polStart))
		w.WriteU32(uint32(grp.polCount))
		w.WriteU32(0)
	}

	w.PatchCur(roomVertexOffset)
	nAttr := sc.Attribute(scene.PointAttr, "N")
	cdAttr := sc.Attribute(scene.PointAttr, "Cd")
	uvAttr := sc.Attribute(scene.PointAttr, "uv")
	for pointIndex, p := range sc.Points {
		n := floatsOrDefault(nAttr, pointIndex, 0, 0, 0)
		cd := floatsOrDefault(cdAttr, pointIndex, 1, 1, 1)
		uv := floatsOrDefault(uvAttr, pointIndex, 0, 1)

		w.WriteFV(p.Pos[0], p.Pos[1], p.Pos[2])
		w.WriteFV(n[0], n[1], n[2])
		w.WriteFV(cd[0], cd[1], cd[2])
		w.WriteFV(uv[0], 1-uv[1])
	}

	w.PatchCur(roomIndexOffset)
	for _, idx := range indices {
		w.WriteU16(idx)
	}

	mtls.writeNames(w, sc, mtlNamePos)
	return w, nil
}
