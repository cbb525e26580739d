package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nethesis/media-image-popup/logger"
	"github.com/nethesis/media-image-popup/metrics"
	"github.com/nethesis/media-image-popup/models"
)

var (
	ErrInvalidFileID      = errors.New("file id must be a positive integer")
	ErrFileNotFound       = errors.New("file not found")
	ErrImageStyleNotFound = errors.New("image style not found")
)

// PopupResolver resolves the image shown inside the popup dialog.
type PopupResolver struct {
	files  FileStorage
	styles ImageStyleStorage
	urls   *FileURLGenerator
	styler *ImageStyler
}

// NewPopupResolver wires the storages and URL builders into a resolver.
func NewPopupResolver(files FileStorage, styles ImageStyleStorage, urls *FileURLGenerator, styler *ImageStyler) *PopupResolver {
	return &PopupResolver{files: files, styles: styles, urls: urls, styler: styler}
}

// Resolve returns the absolute URL of file fid, styled with styleName when
// it is not empty.
func (r *PopupResolver) Resolve(ctx context.Context, rc models.RenderContext, fid int64, styleName string) (string, error) {
	url, err := r.resolve(ctx, rc, fid, styleName)
	metrics.PopupResolutionsTotal.WithLabelValues(styleKind(styleName), resultLabel(err)).Inc()
	return url, err
}

func styleKind(styleName string) string {
	if styleName == "" {
		return "original"
	}
	return "styled"
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrImageStyleNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidFileID):
		return "invalid"
	default:
		return "error"
	}
}

func (r *PopupResolver) resolve(ctx context.Context, rc models.RenderContext, fid int64, styleName string) (string, error) {
	if fid <= 0 {
		return "", ErrInvalidFileID
	}

	file, err := r.files.LoadFile(ctx, fid)
	if err != nil {
		return "", fmt.Errorf("load file %d: %w", fid, err)
	}
	if file == nil {
		return "", fmt.Errorf("%w: %d", ErrFileNotFound, fid)
	}

	if styleName == "" {
		logger.Debug().Int64("fid", fid).Str("uri", file.URI).Msg("resolving original image")
		return r.urls.AbsoluteURL(rc.SiteBaseURL, file.URI)
	}

	style, err := r.styles.LoadImageStyle(ctx, styleName)
	if err != nil {
		return "", fmt.Errorf("load image style %q: %w", styleName, err)
	}
	if style == nil {
		return "", fmt.Errorf("%w: %q", ErrImageStyleNotFound, styleName)
	}

	logger.Debug().Int64("fid", fid).Str("image_style", styleName).Str("uri", file.URI).Msg("resolving styled image")
	return r.styler.BuildURL(rc.SiteBaseURL, style, file.URI)
}

// Render resolves the popup URL and wraps it in the popup details payload.
func (r *PopupResolver) Render(ctx context.Context, rc models.RenderContext, fid int64, styleName string) (*models.PopupDetails, error) {
	url, err := r.Resolve(ctx, rc, fid, styleName)
	if err != nil {
		return nil, err
	}
	return &models.PopupDetails{URLPopup: url}, nil
}
