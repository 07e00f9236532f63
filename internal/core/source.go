package core

import (
	"path/filepath"
	"strings"
)

// Source is a playable video reference.
type Source struct {
	URI    string `json:"uri"`
	Poster string `json:"poster,omitempty"`
	Title  string `json:"title"`
}

// NewSource builds a Source from a URI, deriving a title from its base name.
func NewSource(uri, poster string) Source {
	return Source{
		URI:    uri,
		Poster: poster,
		Title:  titleFromURI(uri),
	}
}

// IsZero returns true if the source has no URI.
func (s Source) IsZero() bool {
	return s.URI == ""
}

func titleFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	base := filepath.Base(strings.TrimRight(uri, "/"))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return uri
	}
	return base
}
