package reader

import (
	"fmt"
	"strings"
	"time"

	"github.com/achilleasa/assetpack/asset"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/log"
)

// Reads a scene bundle: a zip archive with a single top-level .obj file and
// the material libraries, includes and animation tracks it references.
type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene definition from zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	p.logger.Noticef(`parsing scene bundle from "%s"`, sceneRes.Path())
	start := time.Now()

	bundle, err := asset.ReadBundle(sceneRes)
	if err != nil {
		return nil, err
	}

	sceneFiles := bundle.TopLevel(".obj")
	switch len(sceneFiles) {
	case 0:
		return nil, fmt.Errorf("zipSceneReader: bundle does not contain a top-level .obj file")
	case 1:
	default:
		return nil, fmt.Errorf("zipSceneReader: bundle contains multiple scene files (%s)", strings.Join(sceneFiles, ", "))
	}
	p.logger.Debugf("bundle contains %d files", len(bundle.Names()))

	sceneFile, err := bundle.Open(sceneFiles[0], nil)
	if err != nil {
		return nil, err
	}
	defer sceneFile.Close()

	wf := newWavefrontReader()
	wf.open = bundle.Open
	sc, err := wf.Read(sceneFile)
	if err != nil {
		return nil, err
	}

	p.logger.Noticef("loaded scene bundle in %d ms", time.Since(start).Nanoseconds()/1000000)
	return sc, nil
}
