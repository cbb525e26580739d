package service

import (
	"context"

	"github.com/nethesis/media-image-popup/logger"
	"github.com/nethesis/media-image-popup/models"
)

// ImageRenderer renders image markup for the plain and styled render paths.
type ImageRenderer struct {
	renderer *Renderer
	urls     *FileURLGenerator
	styler   *ImageStyler
	styles   ImageStyleStorage
}

// NewImageRenderer wires the collaborators needed to render images.
func NewImageRenderer(renderer *Renderer, urls *FileURLGenerator, styler *ImageStyler, styles ImageStyleStorage) *ImageRenderer {
	return &ImageRenderer{renderer: renderer, urls: urls, styler: styler, styles: styles}
}

// Render returns the <img> markup for attrs.
func (r *ImageRenderer) Render(ctx context.Context, rc models.RenderContext, attrs ImageAttributes) (string, error) {
	vars := imageVars{
		Width:  attrs.Width,
		Height: attrs.Height,
		Alt:    attrs.Alt,
		Title:  attrs.Title,
	}

	var style *models.ImageStyle
	if attrs.Theme == ThemeImageStyle && attrs.StyleName != "" {
		var err error
		style, err = r.styles.LoadImageStyle(ctx, attrs.StyleName)
		if err != nil {
			return "", err
		}
		if style == nil {
			logger.Warn().Str("image_style", attrs.StyleName).Str("uri", attrs.URI).Msg("image style not found, rendering original image")
		}
	}

	if style != nil {
		src, err := r.styler.BuildURL(rc.SiteBaseURL, style, attrs.URI)
		if err != nil {
			return "", err
		}
		vars.Src = ImageSource(src)
		vars.Width, vars.Height = r.styler.TransformDimensions(style, attrs.Width, attrs.Height)
	} else {
		src, err := r.urls.AbsoluteURL(rc.SiteBaseURL, attrs.URI)
		if err != nil {
			return "", err
		}
		vars.Src = ImageSource(src)
	}

	return r.renderer.RenderString(ThemeImage, vars)
}
