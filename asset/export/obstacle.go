package export

import (
	"fmt"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/check"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/types"
)

// Surface classification of an obstacle polygon.
const (
	ObstacleFloor int32 = 1 << iota
	ObstacleCeil
	ObstacleWall
)

// Header layout.
const (
	obstaclePolyCountOffset = 8
	obstacleHeaderSize      = 12
)

// Emits the collision geometry: all scene points followed by one record per
// triangle or quad with the point indices in reversed winding and the
// surface classification.
type obstacleExporter struct{}

func (obstacleExporter) Kind() string { return "obs" }
func (obstacleExporter) Ext() string  { return "obs" }

func (e obstacleExporter) Export(ctx *Context, sc *scene.Scene) (*binfile.Writer, error) {
	w := binfile.NewWriter()
	w.WriteTag("OBST")
	w.WriteI32(int32(len(sc.Points)))
	w.WriteI32(int32(len(sc.Polygons)))

	for _, p := range sc.Points {
		w.WriteFV(p.Pos[0], p.Pos[1], p.Pos[2])
	}

	var written uint32
	for primIndex, poly := range sc.Polygons {
		nvtx := len(poly.Points)
		if nvtx < 3 || nvtx > 4 {
			ctx.Warnf(e.Kind(), "prim", primIndex, "invalid number of vertices (%d)", nvtx)
			continue
		}

		normal := sc.PolygonNormal(primIndex)
		attr := ObstacleWall
		if normal[1] > 0.5 {
			attr = ObstacleFloor
		} else if normal[1] < -0.5 {
			attr = ObstacleCeil
		}

		var indices [4]int
		if nvtx == 4 {
			indices = [4]int{poly.Points[3], poly.Points[2], poly.Points[1], poly.Points[0]}

			var quad [4]types.Vec3
			for i, p := range indices {
				quad[i] = sc.Points[p].Pos
			}
			if !check.IsConvexQuad(quad[0], quad[1], quad[2], quad[3]) {
				ctx.Warnf(e.Kind(), "prim", primIndex, "non-convex quad")
			}
			if !check.IsPlanar(quad[:], normal) {
				ctx.Warnf(e.Kind(), "prim", primIndex, "non-planar quad")
			}
		} else {
			indices = [4]int{poly.Points[2], poly.Points[1], poly.Points[0], poly.Points[0]}
		}

		for _, p := range indices {
			idx, err := pointIndexI16(p)
			if err != nil {
				return nil, fmt.Errorf("obs: prim #%d: %w", primIndex, err)
			}
			w.WriteI16(idx)
		}
		w.WriteI32(attr)
		written++
	}

	// Skipped polygons are not part of the file.
	w.Patch(obstaclePolyCountOffset, written)
	return w, nil
}
