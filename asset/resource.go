package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// OpenFunc opens the resource referenced by name. Relative names are
// resolved against relTo when it is not nil.
type OpenFunc func(name string, relTo *Resource) (*Resource, error)

// A Resource is a named scene input stream. It may be backed by a local file,
// a http/https download or an entry of an in-memory Bundle.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Get the path or URL of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Get the file name of this resource without its folder and extension.
func (r *Resource) Stem() string {
	base := path.Base(r.url.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Get the lowercase file extension of this resource including the dot.
func (r *Resource) Ext() string {
	return strings.ToLower(path.Ext(r.url.Path))
}

// Returns true if the resource is fetched over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a local file or a http/https URL. If name has no scheme and relTo is
// specified, name is treated as relative to the folder containing relTo.
//
// The caller must close the returned resource.
func NewResource(name string, relTo *Resource) (*Resource, error) {
	target, err := resolveURL(name, relTo)
	if err != nil {
		return nil, err
	}

	var stream io.ReadCloser
	switch target.Scheme {
	case "":
		if stream, err = os.Open(filepath.Clean(target.Path)); err != nil {
			return nil, err
		}
	case "http", "https":
		if stream, err = fetch(target); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", target.Scheme)
	}

	return &Resource{ReadCloser: stream, url: target}, nil
}

// Wrap an in-memory stream as a resource.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	target, err := url.Parse(name)
	if err != nil {
		target = &url.URL{Path: name}
	}
	return &Resource{ReadCloser: io.NopCloser(source), url: target}
}

// Build the URL for name. Windows separators are normalized so that scene
// files authored on either platform resolve the same way.
func resolveURL(name string, relTo *Resource) (*url.URL, error) {
	target, err := url.Parse(strings.ReplaceAll(name, `\`, `/`))
	if err != nil {
		return nil, err
	}
	if target.Scheme != "" || relTo == nil {
		return target, nil
	}

	// Remote parents resolve to sibling URLs
	if relTo.IsRemote() {
		parent := *relTo.url
		parent.Path = path.Join(path.Dir(parent.Path), target.Path)
		return &parent, nil
	}

	parentPath, err := filepath.Abs(relTo.url.Path)
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for %s; %s", relTo.Path(), err.Error())
	}
	target.Path = filepath.Join(filepath.Dir(parentPath), filepath.FromSlash(target.Path))
	return target, nil
}

func fetch(target *url.URL) (io.ReadCloser, error) {
	resp, err := http.Get(target.String())
	if err != nil {
		return nil, fmt.Errorf("resource: could not fetch '%s': %s", target.String(), err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("resource: could not fetch '%s': status %d", target.String(), resp.StatusCode)
	}
	return resp.Body, nil
}
