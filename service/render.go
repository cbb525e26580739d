package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/nethesis/media-image-popup/models"
)

// Template names.
const (
	ThemeImage        = "image"
	ThemeImageStyle   = "image_style"
	ThemePopupDetails = "media_image_popup_details"
)

//go:embed templates/*.html
var templateFS embed.FS

// ImageAttributes are the variables of the image templates.
type ImageAttributes struct {
	// Theme is ThemeImage or ThemeImageStyle.
	Theme     string
	StyleName string
	URI       string
	Width     int
	Height    int
	Alt       string
	Title     string
}

// imageVars is what the image template actually receives.
type imageVars struct {
	Src    any
	Width  int
	Height int
	Alt    string
	Title  string
}

// ImageSource prepares src for an <img src> attribute. Inline image data
// URIs are marked safe, html/template would replace them otherwise.
func ImageSource(src string) any {
	if models.IsDataURI(src) && strings.HasPrefix(strings.ToLower(src), "data:image/") {
		return template.URL(src)
	}
	return src
}

// Renderer turns render data into markup using the embedded templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Execute writes the named template with data to w.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// RenderString renders the named template to a string.
func (r *Renderer) RenderString(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
