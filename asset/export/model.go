package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/scene"
)

// Character model header offsets.
const (
	modelGroupOffset  = 0x14
	modelVertexOffset = 0x18
	modelIndexOffset  = 0x1C
	modelCullOffset   = 0x24
	modelHeaderSize   = 0x30

	// Cull block offsets relative to the block start.
	cullSizeOffset  = 0x4
	cullTableOffset = 0x8
	cullRecordSize  = 8

	// Skin influences stored per vertex.
	MaxInfluences = 4
)

// Emits a skinned character model: materials, skeleton, triangle groups,
// vertices with up to MaxInfluences joint weights and 16-bit indices.
type modelExporter struct{}

func (modelExporter) Kind() string { return "omd" }
func (modelExporter) Ext() string  { return "omd" }

func (e modelExporter) Export(ctx *Context, sc *scene.Scene) (*binfile.Writer, error) {
	mtls := newMaterialList()
	var indices []uint16
	groups, err := collectTriangleGroups(ctx, e.Kind(), sc, mtls, &indices)
	if err != nil {
		return nil, err
	}

	w := binfile.NewWriter()
	w.WriteTag("OMD")
	w.WriteU32(uint32(len(mtls.sceneIDs)))
	w.WriteU32(uint32(len(groups)))
	w.WriteU32(uint32(len(sc.Points)))
	w.WriteU32(uint32(len(indices)))
	w.Reserve() // -> groups
	w.Reserve() // -> vertices
	w.Reserve() // -> indices
	w.WriteU32(uint32(len(sc.Joints)))
	w.Reserve() // -> cull info
	w.WriteU32(0)
	w.WriteU32(0)

	mtls.writeParams(w, sc)
	if err = e.writeJoints(ctx, w, sc); err != nil {
		return nil, err
	}

	mtlNamePos := mtls.reserveNames(w)
	jntNamePos := w.Pos()
	for range sc.Joints {
		w.Reserve()
	}

	w.Align(16)
	w.PatchCur(modelGroupOffset)
	for _, grp := range groups {
		w.WriteFV(grp.color[0], grp.color[1], grp.color[2])
		w.WriteI32(int32(grp.mtlID))
		w.WriteU32(uint32(grp.polStart))
		w.WriteU32(uint32(grp.polCount))
		w.WriteU32(0)
		w.WriteU32(0)
	}

	w.PatchCur(modelVertexOffset)
	if err = e.writeVertices(ctx, w, sc); err != nil {
		return nil, err
	}

	w.PatchCur(modelIndexOffset)
	for _, idx := range indices {
		w.WriteU16(idx)
	}

	mtls.writeNames(w, sc, mtlNamePos)
	for i, jnt := range sc.Joints {
		w.PatchCur(jntNamePos + i*4)
		w.WriteString(jnt.Name)
	}

	if err = e.writeCullInfo(ctx, w, groups); err != nil {
		return nil, err
	}

	return w, nil
}

// Write the optional block of joint linked culling spheres. The block starts
// with the "CULL" tag and its size followed by a (offset, count) record per
// group. Offsets are relative to the block start and each sphere list is
// 16-byte aligned: all spheres (xyz + radius) first, then one u8 joint id per
// sphere.
func (e modelExporter) writeCullInfo(ctx *Context, w *binfile.Writer, groups []*triangleGroup) error {
	hasSpheres := false
	for _, grp := range groups {
		if len(grp.cull) != 0 {
			hasSpheres = true
			break
		}
	}
	if !hasSpheres {
		return nil
	}

	w.Align(16)
	w.PatchCur(modelCullOffset)
	top := w.Pos()
	w.WriteTag("CULL")
	w.Reserve() // -> block size
	for _, grp := range groups {
		w.Reserve() // -> sphere list
		w.WriteU32(uint32(len(grp.cull)))
	}

	for i, grp := range groups {
		if len(grp.cull) == 0 {
			continue
		}

		jntIDs := make([]uint8, len(grp.cull))
		for j, sph := range grp.cull {
			id, ok := ctx.JointID(sph.Joint)
			if !ok {
				return fmt.Errorf("omd: group %q: cull sphere #%d: unknown joint %q", grp.name, j, sph.Joint)
			}
			if id > math.MaxUint8 {
				return fmt.Errorf("omd: group %q: cull sphere #%d: joint %q id %d does not fit in 8 bits", grp.name, j, sph.Joint, id)
			}
			jntIDs[j] = uint8(id)
		}

		w.Align(16)
		w.Patch(top+cullTableOffset+i*cullRecordSize, uint32(w.Pos()-top))
		for _, sph := range grp.cull {
			w.WriteFV(sph.Sphere[:]...)
		}
		for _, id := range jntIDs {
			w.WriteU8(id)
		}
	}

	w.Patch(top+cullSizeOffset, uint32(w.Pos()-top))
	return nil
}

func (e modelExporter) writeJoints(ctx *Context, w *binfile.Writer, sc *scene.Scene) error {
	if len(sc.Joints) > math.MaxInt16 {
		return fmt.Errorf("omd: too many joints (%d)", len(sc.Joints))
	}

	for id, jnt := range sc.Joints {
		parentID := -1
		if jnt.Parent != "" {
			var ok bool
			if parentID, ok = ctx.JointID(jnt.Parent); !ok {
				return fmt.Errorf("omd: joint %q: unknown parent %q", jnt.Name, jnt.Parent)
			}
		}

		w.WriteFV(jnt.Pos[0], jnt.Pos[1], jnt.Pos[2])
		w.WriteI16(int16(id))
		w.WriteI16(int16(parentID))
	}
	return nil
}

func (e modelExporter) writeVertices(ctx *Context, w *binfile.Writer, sc *scene.Scene) error {
	nAttr := sc.Attribute(scene.PointAttr, "N")
	uvAttr := sc.Attribute(scene.PointAttr, "uv")

	for pointIndex, p := range sc.Points {
		n := floatsOrDefault(nAttr, pointIndex, 0, 0, 0)
		uv := floatsOrDefault(uvAttr, pointIndex, 0, 1)

		jntIDs, weights, err := e.skin(ctx, pointIndex, p.Skin)
		if err != nil {
			return err
		}

		w.WriteFV(p.Pos[0], p.Pos[1], p.Pos[2])
		w.WriteFV(n[0], n[1], n[2])
		w.WriteFV(uv[0], 1-uv[1])
		for _, id := range jntIDs {
			w.WriteI8(id)
		}
		w.WriteFV(weights[:]...)
	}
	return nil
}

// Resolve the skin influences of a point. The list ends at the first
// non-positive weight; influences beyond MaxInfluences are discarded with a
// warning.
func (e modelExporter) skin(ctx *Context, pointIndex int, skin []scene.Influence) (jntIDs [MaxInfluences]int8, weights [MaxInfluences]float32, err error) {
	var discarded []string
	count := 0
	for _, inf := range skin {
		if inf.Weight <= 0 {
			break
		}

		id, ok := ctx.JointID(inf.Joint)
		if !ok {
			return jntIDs, weights, fmt.Errorf("omd: point #%d: unknown joint %q", pointIndex, inf.Joint)
		}
		if id > math.MaxInt8 {
			return jntIDs, weights, fmt.Errorf("omd: point #%d: joint %q id %d does not fit in 8 bits", pointIndex, inf.Joint, id)
		}

		if count == MaxInfluences {
			discarded = append(discarded, inf.Joint)
			continue
		}
		jntIDs[count] = int8(id)
		weights[count] = inf.Weight
		count++
	}

	if len(discarded) != 0 {
		ctx.Warnf(e.Kind(), "point", pointIndex, "too many weights; discarded joints: %s", strings.Join(discarded, ", "))
	}
	return jntIDs, weights, nil
}
