package api

import (
	"io"

	"github.com/labstack/echo/v4"
	"github.com/nethesis/media-image-popup/service"
)

// templateRenderer adapts the service templates to echo's Renderer.
type templateRenderer struct {
	renderer *service.Renderer
}

func (t *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return t.renderer.Execute(w, name, data)
}
