package service

import (
	"context"

	"github.com/nethesis/media-image-popup/models"
)

// Load methods return (nil, nil) when the entity does not exist.

// FileStorage loads file entities.
type FileStorage interface {
	LoadFile(ctx context.Context, fid int64) (*models.File, error)
}

// MediaStorage loads media entities.
type MediaStorage interface {
	LoadMedia(ctx context.Context, mid int64) (*models.Media, error)
}

// ImageStyleStorage loads image styles.
type ImageStyleStorage interface {
	LoadImageStyle(ctx context.Context, name string) (*models.ImageStyle, error)
	ListImageStyles(ctx context.Context) ([]*models.ImageStyle, error)
}

// EntityStore is the full read/write store used by the internal API.
type EntityStore interface {
	FileStorage
	MediaStorage
	ImageStyleStorage
	SaveFile(ctx context.Context, f *models.File) error
	SaveMedia(ctx context.Context, m *models.Media) error
	SaveImageStyle(ctx context.Context, s *models.ImageStyle) error
}
