package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/nethesis/media-image-popup/logger"
	"github.com/nethesis/media-image-popup/models"
)

// ErrInvalidEntity is returned when an entity sent to the internal API is malformed.
var ErrInvalidEntity = errors.New("invalid entity")

var machineName = regexp.MustCompile(`^[a-z0-9_]+$`)

// EntityService validates and stores entities pushed by the CMS.
type EntityService struct {
	store  EntityStore
	styles *CachedImageStyles
}

// NewEntityService creates an EntityService. styles may be nil.
func NewEntityService(store EntityStore, styles *CachedImageStyles) *EntityService {
	return &EntityService{store: store, styles: styles}
}

// SaveFile stores a file entity.
func (s *EntityService) SaveFile(ctx context.Context, f *models.File) error {
	if f.ID <= 0 {
		return fmt.Errorf("%w: fid must be positive", ErrInvalidEntity)
	}
	if f.Scheme() == "" {
		return fmt.Errorf("%w: uri %q has no scheme", ErrInvalidEntity, f.URI)
	}
	if f.MimeType != "" && !models.IsImageMimeType(f.MimeType) {
		logger.Warn().Int64("fid", f.ID).Str("filemime", f.MimeType).Msg("file is not an image, styles will not apply")
	}
	return s.store.SaveFile(ctx, f)
}

// SaveMedia stores a media entity.
func (s *EntityService) SaveMedia(ctx context.Context, m *models.Media) error {
	if m.ID <= 0 {
		return fmt.Errorf("%w: mid must be positive", ErrInvalidEntity)
	}
	if m.Bundle == "" {
		return fmt.Errorf("%w: bundle is required", ErrInvalidEntity)
	}
	return s.store.SaveMedia(ctx, m)
}

// SaveImageStyle stores an image style and drops cached style lookups.
func (s *EntityService) SaveImageStyle(ctx context.Context, style *models.ImageStyle) error {
	if !machineName.MatchString(style.Name) {
		return fmt.Errorf("%w: style name %q must be a machine name", ErrInvalidEntity, style.Name)
	}
	if style.Label == "" {
		style.Label = style.Name
	}
	for _, e := range style.Effects {
		switch e.ID {
		case models.EffectScale:
			if e.Width <= 0 && e.Height <= 0 {
				return fmt.Errorf("%w: %s needs a width or a height", ErrInvalidEntity, e.ID)
			}
		case models.EffectResize, models.EffectCrop, models.EffectScaleAndCrop:
			if e.Width <= 0 || e.Height <= 0 {
				return fmt.Errorf("%w: %s needs a width and a height", ErrInvalidEntity, e.ID)
			}
		default:
			logger.Warn().Str("style", style.Name).Str("effect", e.ID).Msg("unknown image effect, derivative dimensions will be unknown")
		}
	}

	if err := s.store.SaveImageStyle(ctx, style); err != nil {
		return err
	}
	if s.styles != nil {
		s.styles.Invalidate()
	}
	return nil
}
