package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/log"
)

type dirSink struct {
	logger log.Logger
	dir    string
}

// Create a sink that saves each file under dir. The directory is created if
// it does not exist.
func NewDirSink(dir string) (Sink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("writer: could not create output dir %q: %w", dir, err)
	}

	return &dirSink{
		logger: log.New("dir writer"),
		dir:    dir,
	}, nil
}

// Save w as a file under the sink directory.
func (s *dirSink) Write(name string, w *binfile.Writer) error {
	path := filepath.Join(s.dir, name)
	s.logger.Infof("writing %d bytes to %s", w.Len(), path)
	return w.Save(path)
}

func (s *dirSink) Close() error {
	return nil
}
