package service

import (
	"context"
	"sync"
	"testing"

	"github.com/nethesis/media-image-popup/models"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory EntityStore counting style loads.
type memStore struct {
	mu         sync.Mutex
	files      map[int64]*models.File
	media      map[int64]*models.Media
	styles     map[string]*models.ImageStyle
	styleLoads int
	mediaLoads int
}

func newMemStore() *memStore {
	return &memStore{
		files:  map[int64]*models.File{},
		media:  map[int64]*models.Media{},
		styles: map[string]*models.ImageStyle{},
	}
}

func (m *memStore) LoadFile(_ context.Context, fid int64) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[fid], nil
}

func (m *memStore) LoadMedia(_ context.Context, mid int64) (*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mediaLoads++
	return m.media[mid], nil
}

func (m *memStore) LoadImageStyle(_ context.Context, name string) (*models.ImageStyle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.styleLoads++
	return m.styles[name], nil
}

func (m *memStore) ListImageStyles(_ context.Context) ([]*models.ImageStyle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ImageStyle
	// fixed order: by name
	for _, name := range []string{"large", "medium", "thumbnail"} {
		if s, ok := m.styles[name]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) SaveFile(_ context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[f.ID] = f
	return nil
}

func (m *memStore) SaveMedia(_ context.Context, md *models.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.media[md.ID] = md
	return nil
}

func (m *memStore) SaveImageStyle(_ context.Context, s *models.ImageStyle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.styles[s.Name] = s
	return nil
}

const testBaseURL = "https://example.com"

var testRC = models.RenderContext{SiteBaseURL: testBaseURL}

// seededStore holds two image media and the thumbnail and large styles.
func seededStore() *memStore {
	s := newMemStore()
	s.files[1] = &models.File{ID: 1, URI: "public://media/cat.jpg", MimeType: "image/jpeg"}
	s.files[2] = &models.File{ID: 2, URI: "public://media/dog.jpg", MimeType: "image/jpeg"}
	s.files[101] = &models.File{ID: 101, URI: "public://thumbs/cat.jpg"}

	s.media[10] = &models.Media{
		ID:     10,
		Bundle: "image",
		Name:   "Cat",
		Thumbnail: models.ImageItem{
			TargetID: 101,
			Width:    800,
			Height:   600,
			Alt:      "Cat",
			Title:    "A cat",
			Entity:   s.files[101],
		},
		ImageFileID: 1,
	}
	s.media[20] = &models.Media{
		ID:     20,
		Bundle: "image",
		Name:   "Dog",
		Thumbnail: models.ImageItem{
			URI:    "public://thumbs/dog.jpg",
			Width:  600,
			Height: 800,
			Alt:    "Dog",
			Title:  "   ",
		},
		ImageFileID: 2,
	}

	s.styles["thumbnail"] = &models.ImageStyle{
		Name:    "thumbnail",
		Label:   "Thumbnail (100×100)",
		Effects: []models.ImageEffect{{ID: models.EffectScale, Width: 100, Height: 100}},
	}
	s.styles["large"] = &models.ImageStyle{
		Name:    "large",
		Label:   "Large (480×480)",
		Effects: []models.ImageEffect{{ID: models.EffectScale, Width: 480, Height: 480}},
	}
	return s
}

type testDeps struct {
	store     *memStore
	urls      *FileURLGenerator
	styler    *ImageStyler
	resolver  *PopupResolver
	formatter *MediaImagePopupFormatter
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()
	cfg := NewTestConfig()
	store := seededStore()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	urls := NewFileURLGenerator(cfg)
	styler := NewImageStyler(urls, cfg.ImageTokenKey)
	return testDeps{
		store:     store,
		urls:      urls,
		styler:    styler,
		resolver:  NewPopupResolver(store, store, urls, styler),
		formatter: NewMediaImagePopupFormatter(store, store, NewImageRenderer(renderer, urls, styler, store)),
	}
}

// token returns the itok of uri for styleName under the test key.
func (d testDeps) token(t *testing.T, styleName, uri string) string {
	t.Helper()
	tok, err := d.styler.PathToken(&models.ImageStyle{Name: styleName}, uri)
	require.NoError(t, err)
	return tok
}

func testRCWithBase(base string) models.RenderContext {
	return models.RenderContext{SiteBaseURL: base}
}
