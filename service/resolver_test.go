package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopupResolverResolve(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps(t)

	t.Run("original image without style", func(t *testing.T) {
		got, err := d.resolver.Resolve(ctx, testRC, 1, "")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/sites/default/files/media/cat.jpg", got)
	})

	t.Run("styled derivative", func(t *testing.T) {
		got, err := d.resolver.Resolve(ctx, testRC, 1, "large")
		require.NoError(t, err)
		want := "https://example.com/sites/default/files/styles/large/public/media/cat.jpg?itok=" + d.token(t, "large", "public://media/cat.jpg")
		assert.Equal(t, want, got)

		original, err := d.resolver.Resolve(ctx, testRC, 1, "")
		require.NoError(t, err)
		assert.NotEqual(t, original, got)
	})

	t.Run("base url comes from the render context", func(t *testing.T) {
		got, err := d.resolver.Resolve(ctx, testRCWithBase("http://cms.local:8080/"), 2, "")
		require.NoError(t, err)
		assert.Equal(t, "http://cms.local:8080/sites/default/files/media/dog.jpg", got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := d.resolver.Resolve(ctx, testRC, 999, "")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("missing style", func(t *testing.T) {
		_, err := d.resolver.Resolve(ctx, testRC, 1, "deleted_style")
		assert.ErrorIs(t, err, ErrImageStyleNotFound)
	})

	t.Run("invalid file id", func(t *testing.T) {
		_, err := d.resolver.Resolve(ctx, testRC, 0, "")
		assert.ErrorIs(t, err, ErrInvalidFileID)
	})
}

func TestPopupResolverRender(t *testing.T) {
	d := newTestDeps(t)

	details, err := d.resolver.Render(context.Background(), testRC, 2, "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/sites/default/files/media/dog.jpg", details.URLPopup)

	renderer, err := NewRenderer()
	require.NoError(t, err)
	html, err := renderer.RenderString(ThemePopupDetails, map[string]string{"url_popup": details.URLPopup})
	require.NoError(t, err)
	assert.Contains(t, html, `src="https://example.com/sites/default/files/media/dog.jpg"`)
	assert.Contains(t, html, `class="media-image-popup"`)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "success", resultLabel(nil))
	assert.Equal(t, "not_found", resultLabel(ErrFileNotFound))
	assert.Equal(t, "not_found", resultLabel(ErrImageStyleNotFound))
	assert.Equal(t, "invalid", resultLabel(ErrInvalidFileID))
	assert.Equal(t, "error", resultLabel(ErrUnsupportedScheme))
	assert.Equal(t, "original", styleKind(""))
	assert.Equal(t, "styled", styleKind("large"))
}
