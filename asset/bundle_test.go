package asset

import (
	"archive/zip"
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"
)

func zipResource(t *testing.T, files map[string]string) *Resource {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return NewResourceFromStream("level.zip", &buf)
}

func readAll(t *testing.T, res *Resource) string {
	defer res.Close()
	data, err := io.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestBundleEntries(t *testing.T) {
	bundle, err := ReadBundle(zipResource(t, map[string]string{
		"scene.obj":         "call lib/geometry.obj",
		"extra.OBJ":         "",
		"lib/geometry.obj":  "mtllib ../mtl/base.mtl",
		"mtl/base.mtl":      "newmtl base",
		"lib/nested/x.yaml": "",
	}))
	if err != nil {
		t.Fatal(err)
	}

	expNames := []string{"extra.OBJ", "lib/geometry.obj", "lib/nested/x.yaml", "mtl/base.mtl", "scene.obj"}
	if !reflect.DeepEqual(bundle.Names(), expNames) {
		t.Fatalf("expected names %v; got %v", expNames, bundle.Names())
	}
	if got := bundle.TopLevel(".obj"); !reflect.DeepEqual(got, []string{"extra.OBJ", "scene.obj"}) {
		t.Fatalf("expected top-level obj files extra.OBJ and scene.obj; got %v", got)
	}

	sceneRes, err := bundle.Open("scene.obj", nil)
	if err != nil {
		t.Fatal(err)
	}
	if sceneRes.Stem() != "scene" {
		t.Fatalf("expected stem scene; got %s", sceneRes.Stem())
	}

	geom, err := bundle.Open("lib/geometry.obj", sceneRes)
	if err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, geom); got != "mtllib ../mtl/base.mtl" {
		t.Fatalf("unexpected geometry contents %q", got)
	}

	mtl, err := bundle.Open(`..\mtl\base.mtl`, geom)
	if err != nil {
		t.Fatal(err)
	}
	if mtl.Path() != "mtl/base.mtl" {
		t.Fatalf("expected relative entry to resolve to mtl/base.mtl; got %s", mtl.Path())
	}
	if got := readAll(t, mtl); got != "newmtl base" {
		t.Fatalf("unexpected material contents %q", got)
	}

	_, err = bundle.Open("missing.mtl", sceneRes)
	if err == nil || !strings.Contains(err.Error(), "no entry named missing.mtl") {
		t.Fatalf("expected missing entry error; got %v", err)
	}
}

func TestBundleFromInvalidArchive(t *testing.T) {
	_, err := ReadBundle(NewResourceFromStream("broken.zip", strings.NewReader("not a zip")))
	if err == nil || !strings.HasPrefix(err.Error(), "bundle: broken.zip") {
		t.Fatalf("expected invalid archive error; got %v", err)
	}
}
