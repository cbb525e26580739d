package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nethesis/media-image-popup/models"
)

// ErrUnsupportedScheme is returned for file URIs with an unknown stream wrapper.
var ErrUnsupportedScheme = errors.New("unsupported file uri scheme")

// FileURLGenerator turns stream URIs into absolute URLs.
type FileURLGenerator struct {
	PublicPath  string
	PrivatePath string
}

// NewFileURLGenerator builds a generator from cfg.
func NewFileURLGenerator(cfg *Config) *FileURLGenerator {
	return &FileURLGenerator{
		PublicPath:  strings.Trim(cfg.PublicFilesPath, "/"),
		PrivatePath: strings.Trim(cfg.PrivateFilesPath, "/"),
	}
}

// AbsoluteURL returns the absolute URL of uri below baseURL. Remote URIs
// (http, https, data and protocol-relative //host/path) are returned unchanged.
func (g *FileURLGenerator) AbsoluteURL(baseURL, uri string) (string, error) {
	if models.IsProtocolRelative(uri) {
		return uri, nil
	}
	base := strings.TrimRight(baseURL, "/")
	target := encodePath(models.URITarget(uri))

	switch scheme := models.URIScheme(uri); scheme {
	case "http", "https", "data":
		return uri, nil
	case "public":
		return joinURL(base, g.PublicPath, target), nil
	case "private":
		return joinURL(base, g.PrivatePath, target), nil
	case "":
		return joinURL(base, target), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// encodePath escapes each path segment, keeping the separators.
func encodePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func joinURL(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}
