package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nethesis/media-image-popup/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "test_entities_*.db")
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	d, err := NewDatabase(tmpFile.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNewDatabaseUnreachablePath(t *testing.T) {
	d, err := NewDatabase(filepath.Join(t.TempDir(), "missing", "entities.db"))
	require.Error(t, err)
	assert.Nil(t, d)
}

func TestFiles(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	t.Run("missing file returns nil", func(t *testing.T) {
		f, err := d.LoadFile(ctx, 404)
		assert.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, d.SaveFile(ctx, &models.File{ID: 7, URI: "public://2024-05/cat.jpg", Filename: "cat.jpg", MimeType: "image/jpeg"}))

		f, err := d.LoadFile(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, "public://2024-05/cat.jpg", f.URI)
		assert.Equal(t, "cat.jpg", f.Filename)
		assert.Equal(t, "image/jpeg", f.MimeType)
	})

	t.Run("save overwrites", func(t *testing.T) {
		require.NoError(t, d.SaveFile(ctx, &models.File{ID: 7, URI: "public://2024-06/dog.png"}))

		f, err := d.LoadFile(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "public://2024-06/dog.png", f.URI)
		assert.Empty(t, f.Filename)
	})
}

func TestMedia(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	require.NoError(t, d.SaveFile(ctx, &models.File{ID: 10, URI: "public://thumbs/cat.jpg"}))
	require.NoError(t, d.SaveMedia(ctx, &models.Media{
		ID:     1,
		Bundle: "image",
		Name:   "Cat",
		Thumbnail: models.ImageItem{
			TargetID: 10,
			Width:    640,
			Height:   480,
			Alt:      "A cat",
			Title:    "Cat title",
		},
		ImageFileID: 11,
	}))

	m, err := d.LoadMedia(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "image", m.Bundle)
	assert.Equal(t, int64(11), m.ImageFileID)
	assert.Equal(t, 640, m.Thumbnail.Width)
	assert.Equal(t, 480, m.Thumbnail.Height)
	assert.Equal(t, "A cat", m.Thumbnail.Alt)
	require.NotNil(t, m.Thumbnail.Entity)
	assert.Equal(t, "public://thumbs/cat.jpg", m.Thumbnail.ResolvedURI())

	missing, err := d.LoadMedia(ctx, 2)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestImageStyles(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	require.NoError(t, d.SaveImageStyle(ctx, &models.ImageStyle{
		Name:    "thumbnail",
		Label:   "Thumbnail (100×100)",
		Effects: []models.ImageEffect{{ID: models.EffectScale, Width: 100, Height: 100}},
	}))
	require.NoError(t, d.SaveImageStyle(ctx, &models.ImageStyle{
		Name:    "large",
		Label:   "Large (480×480)",
		Effects: []models.ImageEffect{{ID: models.EffectScale, Width: 480, Height: 480}},
	}))

	s, err := d.LoadImageStyle(ctx, "thumbnail")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Len(t, s.Effects, 1)
	assert.Equal(t, models.EffectScale, s.Effects[0].ID)
	assert.Equal(t, 100, s.Effects[0].Width)

	missing, err := d.LoadImageStyle(ctx, "gone")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	styles, err := d.ListImageStyles(ctx)
	require.NoError(t, err)
	require.Len(t, styles, 2)
	assert.Equal(t, "large", styles[0].Name)
	assert.Equal(t, "thumbnail", styles[1].Name)
}
