package asset

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// A Bundle holds the files of a zip archive in memory so that scene files
// inside it can reference each other with relative paths.
type Bundle struct {
	files map[string][]byte
	names []string
}

// Load all files from a zip archive resource.
func ReadBundle(res *Resource) (*Bundle, error) {
	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("bundle: %s: %w", res.Path(), err)
	}

	b := &Bundle{files: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("bundle: failed to load %s: %w", f.Name, err)
		}

		name := path.Clean(f.Name)
		b.files[name] = content
		b.names = append(b.names, name)
	}
	sort.Strings(b.names)

	return b, nil
}

// Get the sorted list of files in the bundle.
func (b *Bundle) Names() []string {
	return b.names
}

// Get the files at the root of the bundle with the given extension.
func (b *Bundle) TopLevel(ext string) []string {
	var out []string
	for _, name := range b.names {
		if !strings.Contains(name, "/") && strings.EqualFold(path.Ext(name), ext) {
			out = append(out, name)
		}
	}
	return out
}

// Open a bundle entry. Relative names are resolved against the folder of
// relTo. Open can be used as an OpenFunc.
func (b *Bundle) Open(name string, relTo *Resource) (*Resource, error) {
	entry := path.Clean(strings.ReplaceAll(name, `\`, `/`))
	if relTo != nil && !path.IsAbs(entry) {
		entry = path.Join(path.Dir(relTo.url.Path), entry)
	}
	entry = strings.TrimPrefix(entry, "/")

	data, exists := b.files[entry]
	if !exists {
		return nil, fmt.Errorf("bundle: no entry named %s", entry)
	}
	return NewResourceFromStream(entry, bytes.NewReader(data)), nil
}
