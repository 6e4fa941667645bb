package export

import (
	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/bvh"
	"github.com/achilleasa/assetpack/asset/scene"
)

// Emits a BVH over all scene polygons. The initial split axis is selected
// from the bounds of all scene points. Scenes without polygons are skipped.
type bvhExporter struct{}

func (bvhExporter) Kind() string { return "bvh" }
func (bvhExporter) Ext() string  { return "bvh" }

func (bvhExporter) Export(_ *Context, sc *scene.Scene) (*binfile.Writer, error) {
	if sc.PrimitiveCount() == 0 {
		return nil, ErrNothingToExport
	}

	tree, err := bvh.BuildWithBounds(bvh.PrimitivesFrom(sc), sc.BBox())
	if err != nil {
		return nil, err
	}

	w := binfile.NewWriter()
	if err = tree.Write(w); err != nil {
		return nil, err
	}
	return w, nil
}
