package export

import (
	"testing"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/stretchr/testify/require"
)

func headerValue(t *testing.T, info *FileInfo, name string) string {
	for _, hv := range info.Header {
		if hv.Name == name {
			return hv.Value
		}
	}
	t.Fatalf("expected header field %q in %s file", name, info.Kind)
	return ""
}

func TestInspect(t *testing.T) {
	sc := characterScene(t)
	ctx := NewContext(sc)

	expFields := map[string]map[string]string{
		"bvh": {"nodes": "5"},
		"obs": {"points": "4", "polygons": "3"},
		"lan": {"lanes": "0"},
		"gmt": {"points": "4", "polygons": "3", "point attrs": "1", "prim attrs": "1", "global attrs": "0"},
		"omd": {"materials": "1", "groups": "2", "vertices": "4", "joints": "2", "cull": "0"},
		"rmd": {"materials": "1", "groups": "2", "vertices": "4", "bbox": "(0, 0, 0) - (1, 1, 0)"},
	}

	for kind, fields := range expFields {
		exp, err := Lookup(kind)
		require.NoError(t, err)
		w, err := exp.Export(ctx, sc)
		require.NoError(t, err)

		info, err := Inspect(binfile.NewReader(w.Bytes()))
		require.NoError(t, err)
		require.Equal(t, kind, info.Kind)
		require.Equal(t, w.Len(), info.Size)
		for name, val := range fields {
			require.Equal(t, val, headerValue(t, info, name), "%s: field %q", kind, name)
		}
	}
}

func TestInspectErrors(t *testing.T) {
	_, err := Inspect(binfile.NewReader([]byte("XYZ\x00")))
	require.ErrorContains(t, err, `unknown file tag "XYZ"`)

	_, err = Inspect(binfile.NewReader([]byte("OBST\x01\x00\x00\x00")))
	require.ErrorContains(t, err, `obs header field "polygons"`)

	_, err = Inspect(binfile.NewReader([]byte("BV")))
	require.Error(t, err)
}
