package models

import "strings"

// EntityTypeMedia is the target type of fields the formatter applies to.
const EntityTypeMedia = "media"

// File is a stored file entity addressed by a stream URI such as
// public://2024-05/cat.jpg.
type File struct {
	ID       int64  `json:"fid"`
	URI      string `json:"uri"`
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"filemime,omitempty"`
}

// Scheme returns the stream wrapper scheme of the file URI, e.g. "public".
func (f *File) Scheme() string {
	return URIScheme(f.URI)
}

const dataScheme = "data"

// URIScheme returns the scheme part of a stream URI. Besides scheme://target
// it recognises inline data: URIs; anything else has no scheme.
func URIScheme(uri string) string {
	if scheme, _, ok := strings.Cut(uri, "://"); ok {
		return scheme
	}
	if IsDataURI(uri) {
		return dataScheme
	}
	return ""
}

// URITarget returns the path part of a stream URI.
func URITarget(uri string) string {
	if _, target, ok := strings.Cut(uri, "://"); ok {
		return strings.TrimLeft(target, "/")
	}
	if IsDataURI(uri) {
		return uri[len(dataScheme)+1:]
	}
	return strings.TrimLeft(uri, "/")
}

// IsDataURI reports whether uri is an inline data: URI.
func IsDataURI(uri string) bool {
	return len(uri) > len(dataScheme) && strings.EqualFold(uri[:len(dataScheme)+1], dataScheme+":")
}

// IsProtocolRelative reports whether uri is a //host/path URL.
func IsProtocolRelative(uri string) bool {
	return strings.HasPrefix(uri, "//")
}

// ImageItem is a single value of an image field, here the media thumbnail.
type ImageItem struct {
	// TargetID is the referenced file id.
	TargetID int64 `json:"target_id"`
	// URI is set directly on the item for images not backed by a loaded file.
	URI    string `json:"uri,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`
	Title  string `json:"title,omitempty"`
	// Entity is the loaded file, if any.
	Entity *File `json:"-"`
}

// ResolvedURI prefers the item's own URI and falls back to the attached file.
func (i ImageItem) ResolvedURI() string {
	if i.URI == "" && i.Entity != nil {
		return i.Entity.URI
	}
	return i.URI
}

// Media is a media entity of an image bundle.
type Media struct {
	ID        int64     `json:"mid"`
	Bundle    string    `json:"bundle"`
	Name      string    `json:"name"`
	Thumbnail ImageItem `json:"thumbnail"`
	// ImageFileID is field_media_image.target_id, the original uploaded file.
	ImageFileID int64 `json:"field_media_image"`
}

// MediaReference is one item of an entity reference field pointing at media.
type MediaReference struct {
	TargetID int64 `json:"target_id"`
	// Entity is set for references to entities not saved yet; those are
	// rendered as-is instead of being loaded from storage.
	Entity *Media `json:"entity,omitempty"`
}

// HasNewEntity reports whether the reference carries an unsaved entity.
func (r MediaReference) HasNewEntity() bool {
	return r.Entity != nil && r.Entity.ID == 0
}

// IsImageMimeType checks if the MIME type is one the image toolkit can style.
func IsImageMimeType(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
