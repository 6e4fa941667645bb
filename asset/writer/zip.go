package writer

import (
	"archive/zip"
	"fmt"
	"os"
	"time"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/log"
)

type zipSink struct {
	logger  log.Logger
	zipPath string
	start   time.Time

	file *os.File
	zw   *zip.Writer
}

// Create a sink that packs all files into a zip archive at zipPath.
func NewZipSink(zipPath string) (Sink, error) {
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return nil, fmt.Errorf("writer: could not create archive %q: %w", zipPath, err)
	}

	s := &zipSink{
		logger:  log.New("zip writer"),
		zipPath: zipPath,
		start:   time.Now(),
		file:    zipFile,
		zw:      zip.NewWriter(zipFile),
	}
	s.logger.Noticef("writing compressed assets to %s", zipPath)
	return s, nil
}

// Add w to the archive as name.
func (s *zipSink) Write(name string, w *binfile.Writer) error {
	cw, err := s.zw.Create(name)
	if err != nil {
		return fmt.Errorf("writer: could not add %q to %q: %w", name, s.zipPath, err)
	}
	if _, err = w.WriteTo(cw); err != nil {
		return fmt.Errorf("writer: could not write %q to %q: %w", name, s.zipPath, err)
	}

	s.logger.Infof("added %s (%d bytes)", name, w.Len())
	return nil
}

// Finalize the archive. The archive file is closed even if writing the zip
// directory fails.
func (s *zipSink) Close() error {
	zipErr := s.zw.Close()
	fileErr := s.file.Close()
	if zipErr != nil {
		return fmt.Errorf("writer: could not finalize %q: %w", s.zipPath, zipErr)
	}
	if fileErr != nil {
		return fmt.Errorf("writer: could not close %q: %w", s.zipPath, fileErr)
	}

	s.logger.Noticef("compressed assets in %d ms", time.Since(s.start).Nanoseconds()/1000000)
	return nil
}
