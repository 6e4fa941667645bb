package export

import (
	"strings"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/types"
)

// Lane table record layout.
const (
	laneRecordSize    = 0x10
	laneNameOffset    = 0x0
	laneInfoOffset    = 0x4
	laneAreaOffset    = 0x8
	laneVtxCountField = 0xC

	laneGroupPrefix = "lane_"
	areaGroupPrefix = "area_"
)

type laneVertex struct {
	pos types.Vec3
	uv  []float32
}

type lane struct {
	name  string
	bbox  types.BBox
	verts []laneVertex

	area    types.BBox
	hasArea bool
}

// Emits the navigation lanes. Each lane_<name> group contributes a block of
// quads and an optional area_<name> group contributes a bounding box.
type laneExporter struct{}

func (laneExporter) Kind() string { return "lan" }
func (laneExporter) Ext() string  { return "lan" }

func (e laneExporter) Export(ctx *Context, sc *scene.Scene) (*binfile.Writer, error) {
	lanes := e.collectLanes(ctx, sc)

	w := binfile.NewWriter()
	w.WriteTag("LANE")
	w.WriteI32(int32(len(lanes)))
	tblPos := w.Pos()
	for range lanes {
		w.Reserve() // -> name
		w.Reserve() // -> info
		w.Reserve() // -> area (optional)
		w.Reserve() // vertex count
	}

	for i, l := range lanes {
		rec := tblPos + i*laneRecordSize
		w.Align(16)
		w.PatchCur(rec + laneInfoOffset)
		w.Patch(rec+laneVtxCountField, uint32(len(l.verts)))
		if len(l.verts) == 0 {
			continue
		}

		w.WriteAABB(l.bbox)
		for _, v := range l.verts {
			w.WriteFV(v.pos[0], v.pos[1], v.pos[2])
			w.WriteFV(v.uv[0], v.uv[1])
		}
	}

	w.Align(16)
	for i, l := range lanes {
		if l.hasArea {
			w.PatchCur(tblPos + i*laneRecordSize + laneAreaOffset)
			w.WriteAABB(l.area)
		}
	}
	for i, l := range lanes {
		w.PatchCur(tblPos + i*laneRecordSize + laneNameOffset)
		w.WriteString(l.name)
	}

	return w, nil
}

func (e laneExporter) collectLanes(ctx *Context, sc *scene.Scene) []*lane {
	uvAttr := sc.Attribute(scene.PointAttr, "uv")

	var lanes []*lane
	laneMap := make(map[string]*lane)
	for _, g := range groupsWithPrefix(sc, laneGroupPrefix) {
		l := &lane{name: strings.TrimPrefix(g.Name, laneGroupPrefix)}
		for _, prim := range g.Prims {
			poly := sc.Polygons[prim]
			if len(poly.Points) != 4 {
				ctx.Warnf(e.Kind(), "prim", prim, "lane %q: expected a quad; got %d vertices", l.name, len(poly.Points))
				continue
			}

			quadBBox := types.BBoxFromPoints(sc.PolygonVertices(prim))
			if len(l.verts) == 0 {
				l.bbox = quadBBox
			} else {
				l.bbox.Merge(quadBBox)
			}

			for i := 3; i >= 0; i-- {
				p := poly.Points[i]
				l.verts = append(l.verts, laneVertex{
					pos: sc.Points[p].Pos,
					uv:  floatsOrDefault(uvAttr, p, 0, 0),
				})
			}
		}
		lanes = append(lanes, l)
		laneMap[l.name] = l
	}

	for _, g := range groupsWithPrefix(sc, areaGroupPrefix) {
		name := strings.TrimPrefix(g.Name, areaGroupPrefix)
		l := laneMap[name]
		if l == nil {
			ctx.WarnNamedf(e.Kind(), "group", g.Name, "no matching lane %q", laneGroupPrefix+name)
			continue
		}

		bbox := sc.PolygonsBBox(g.Prims)
		if l.hasArea {
			l.area.Merge(bbox)
		} else {
			l.area = bbox
			l.hasArea = true
		}
	}

	return lanes
}
