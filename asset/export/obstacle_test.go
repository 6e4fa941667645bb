package export

import (
	"testing"

	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/types"
	"github.com/stretchr/testify/require"
)

func TestObstacleExport(t *testing.T) {
	sc := scene.New("room")
	addPoints(sc,
		types.Vec3{0, 0, 0},
		types.Vec3{1, 0, 0},
		types.Vec3{1, 0, 1},
		types.Vec3{0, 0, 1},
		types.Vec3{0, 1, 0},
	)
	addPolygon(sc, "", 0, 1, 2, 3)    // floor
	addPolygon(sc, "", 0, 1, 4)       // wall
	addPolygon(sc, "", 3, 2, 1, 0)    // ceiling
	addPolygon(sc, "", 0, 1, 2, 3, 4) // too many vertices
	addPolygon(sc, "", 0, 1)          // too few vertices
	addPolygon(sc, "", 0, 2, 1, 3)    // bow tie

	ctx := NewContext(sc)
	w, err := obstacleExporter{}.Export(ctx, sc)
	require.NoError(t, err)

	f := readBack(t, w)
	require.Equal(t, "OBST", f.tag())
	require.Equal(t, int32(5), f.i32(4))
	require.Equal(t, int32(4), f.i32(obstaclePolyCountOffset), "skipped polygons must not be counted")
	require.Equal(t, []float32{1, 0, 1}, f.fv(obstacleHeaderSize+2*12, 3))

	polyStart := obstacleHeaderSize + 5*12
	specs := []struct {
		indices [4]int16
		attr    int32
	}{
		{[4]int16{3, 2, 1, 0}, ObstacleFloor},
		{[4]int16{4, 1, 0, 0}, ObstacleWall},
		{[4]int16{0, 1, 2, 3}, ObstacleCeil},
		{[4]int16{3, 1, 2, 0}, ObstacleWall},
	}
	for i, spec := range specs {
		rec := polyStart + i*12
		for j, exp := range spec.indices {
			require.Equal(t, exp, f.i16(rec+j*2), "polygon %d index %d", i, j)
		}
		require.Equal(t, spec.attr, f.i32(rec+8), "polygon %d attribute", i)
	}
	require.Equal(t, polyStart+4*12, w.Len())

	warnings := ctx.Warnings()
	require.Len(t, warnings, 3)
	require.Equal(t, 3, warnings[0].Index)
	require.Contains(t, warnings[0].Message, "invalid number of vertices (5)")
	require.Equal(t, 4, warnings[1].Index)
	require.Equal(t, 5, warnings[2].Index)
	require.Equal(t, "non-convex quad", warnings[2].Message)
	require.Equal(t, "obs: prim #5: non-convex quad", warnings[2].String())
}

func TestObstacleExportRejectsWideIndices(t *testing.T) {
	sc := scene.New("room")
	for i := 0; i < 1<<15+1; i++ {
		sc.AddPoint(scene.Point{Pos: types.Vec3{float32(i), 0, 0}})
	}
	addPolygon(sc, "", 0, 1, 1<<15)

	_, err := obstacleExporter{}.Export(NewContext(sc), sc)
	require.ErrorContains(t, err, "does not fit in a 16-bit index")
}
