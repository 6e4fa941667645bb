package export

import (
	"fmt"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/types"
)

// Toon shading parameters stored for each material, in file order. Each one
// is written as a 4 component vector.
var toonParams = []string{"sun_dir", "sun_color", "sun_param", "rim_color", "rim_param"}

const primGroupPrefix = "prim_"

// The materials referenced by a model file in order of first use.
type materialList struct {
	sceneIDs []int
	localIDs map[int]int
}

func newMaterialList() *materialList {
	return &materialList{localIDs: make(map[int]int)}
}

// Get the file-local id for a scene material id, registering it on first use.
func (l *materialList) use(sceneID int) int {
	if id, ok := l.localIDs[sceneID]; ok {
		return id
	}
	id := len(l.sceneIDs)
	l.localIDs[sceneID] = id
	l.sceneIDs = append(l.sceneIDs, sceneID)
	return id
}

// Write the toon parameters of each listed material.
func (l *materialList) writeParams(w *binfile.Writer, sc *scene.Scene) {
	for _, id := range l.sceneIDs {
		mtl := sc.Materials[id]
		for _, name := range toonParams {
			w.WriteQV(mtl.Param(name)...)
		}
	}
}

// Reserve a name pointer per material and return the table offset.
func (l *materialList) reserveNames(w *binfile.Writer) int {
	pos := w.Pos()
	for range l.sceneIDs {
		w.Reserve()
	}
	return pos
}

// Write the material names and patch the name pointer table at tblPos.
func (l *materialList) writeNames(w *binfile.Writer, sc *scene.Scene, tblPos int) {
	for i, id := range l.sceneIDs {
		w.PatchCur(tblPos + i*4)
		w.WriteString(sc.Materials[id].Name)
	}
}

// A run of triangles sharing a material.
type triangleGroup struct {
	name     string
	mtlID    int
	polStart int
	polCount int
	color    []float32
	bbox     types.BBox
	cull     []scene.CullSphere
}

// Collect the triangles of all prim_<name> groups, appending their point
// indices to indices. Polygons that are not triangles are skipped with a
// warning.
func collectTriangleGroups(ctx *Context, exporter string, sc *scene.Scene, mtls *materialList, indices *[]uint16) ([]*triangleGroup, error) {
	cdAttr := sc.Attribute(scene.PrimAttr, "Cd")

	var groups []*triangleGroup
	for _, g := range groupsWithPrefix(sc, primGroupPrefix) {
		if len(g.Prims) == 0 {
			ctx.WarnNamedf(exporter, "group", g.Name, "group is empty")
			continue
		}

		grp := &triangleGroup{
			name:     g.Name,
			polStart: len(*indices),
			cull:     g.Cull,
		}

		for _, prim := range g.Prims {
			poly := sc.Polygons[prim]
			if len(poly.Points) != 3 {
				ctx.Warnf(exporter, "prim", prim, "group %q: expected a triangle; got %d vertices", g.Name, len(poly.Points))
				continue
			}

			for _, p := range poly.Points {
				idx, err := pointIndexU16(p)
				if err != nil {
					return nil, fmt.Errorf("%s: prim #%d: %w", exporter, prim, err)
				}
				*indices = append(*indices, idx)
			}

			triBBox := types.BBoxFromPoints(sc.PolygonVertices(prim))
			if grp.polCount == 0 {
				grp.bbox = triBBox
			} else {
				grp.bbox.Merge(triBBox)
			}
			grp.polCount++
		}

		// The first polygon defines the group material and color.
		first := g.Prims[0]
		mtlName := sc.Polygons[first].Material
		sceneID, ok := ctx.MaterialID(mtlName)
		if !ok {
			return nil, fmt.Errorf("%s: group %q: unknown material %q", exporter, g.Name, mtlName)
		}
		grp.mtlID = mtls.use(sceneID)
		grp.color = floatsOrDefault(cdAttr, first, 1, 1, 1)

		groups = append(groups, grp)
	}

	return groups, nil
}
