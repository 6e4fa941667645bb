package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/bvh"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/asset/writer"
	"github.com/achilleasa/assetpack/types"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	require.Equal(t, []string{"bvh", "obs", "lan", "kfr", "gmt", "omd", "rmd"}, Kinds())

	for _, kind := range Kinds() {
		exp, err := Lookup(kind)
		require.NoError(t, err)
		require.Equal(t, kind, exp.Kind())
		require.Equal(t, kind, exp.Ext())
	}

	_, err := Lookup("fbx")
	require.ErrorContains(t, err, `unknown exporter "fbx"`)
}

func TestBvhExport(t *testing.T) {
	sc := scene.New("room")
	for i := 0; i < 5; i++ {
		x := float32(i * 3)
		pts := addPoints(sc, types.Vec3{x, 0, 0}, types.Vec3{x + 1, 0, 0}, types.Vec3{x, 1, 0})
		addPolygon(sc, "", pts...)
	}

	w, err := bvhExporter{}.Export(NewContext(sc), sc)
	require.NoError(t, err)

	tree, err := bvh.Read(binfile.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 9)
	require.Equal(t, 5, tree.LeafCount())
	require.Equal(t, sc.BBox(), tree.Nodes[tree.Root].BBox)

	_, err = bvhExporter{}.Export(NewContext(scene.New("empty")), scene.New("empty"))
	require.ErrorIs(t, err, ErrNothingToExport)
}

func TestRunSkipsEmptyScene(t *testing.T) {
	dir := t.TempDir()
	sink, err := writer.NewDirSink(dir)
	require.NoError(t, err)

	results, _, err := Run(scene.New("empty"), []string{"bvh", "kfr"}, "empty", sink)
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	require.Len(t, results, 2)
	for _, res := range results {
		require.True(t, res.Skipped, "%s should be skipped", res.Kind)
		require.Empty(t, res.File)
	}

	_, err = os.Stat(filepath.Join(dir, "empty.bvh"))
	require.True(t, os.IsNotExist(err))
}

func TestRun(t *testing.T) {
	sc := characterScene(t)
	dir := t.TempDir()
	sink, err := writer.NewDirSink(dir)
	require.NoError(t, err)

	results, warnings, err := Run(sc, nil, "char", sink)
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	require.Len(t, results, len(Kinds()))
	require.NotEmpty(t, warnings)

	for _, res := range results {
		if res.Kind == "kfr" {
			require.True(t, res.Skipped, "scene without animation skips kfr")
			continue
		}

		require.Equal(t, "char."+res.Kind, res.File)
		info, err := os.Stat(filepath.Join(dir, res.File))
		require.NoError(t, err)
		require.Equal(t, int64(res.Size), info.Size())
	}

	report := Report(results)
	require.Contains(t, report, "char.omd")
	require.Contains(t, report, "(skipped)")
}

func TestRunErrors(t *testing.T) {
	sc := characterScene(t)
	sink, err := writer.NewDirSink(t.TempDir())
	require.NoError(t, err)

	_, _, err = Run(sc, []string{"obs", "fbx"}, "char", sink)
	require.ErrorContains(t, err, `unknown exporter "fbx"`)

	sc.Points[0].Skin[0].Joint = "tail"
	results, _, err := Run(sc, []string{"obs", "omd"}, "char", sink)
	require.ErrorContains(t, err, "export omd:")
	require.Len(t, results, 1)
}
