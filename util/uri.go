package util

import (
	"net/url"
	"path/filepath"
	"strings"
)

// URIToPath converts a file:// URI to a local path. Anything else is
// returned unchanged, so plain paths and "-" pass through.
func URIToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return filepath.FromSlash(uri[len("file://"):])
	}
	return filepath.FromSlash(u.Path)
}
