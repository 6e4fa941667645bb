package writer

import "github.com/achilleasa/assetpack/asset/binfile"

// The Sink interface is implemented by all output writers.
type Sink interface {
	// Store the contents of w under name.
	Write(name string, w *binfile.Writer) error

	// Flush pending data and release any held resources.
	Close() error
}

// Create a sink for the given output settings. If archivePath is not empty
// all files are packed into a single zip archive; otherwise they are saved
// under dir.
func NewSink(dir, archivePath string) (Sink, error) {
	if archivePath != "" {
		return NewZipSink(archivePath)
	}
	return NewDirSink(dir)
}
