package service

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/nethesis/media-image-popup/logger"
	"github.com/nethesis/media-image-popup/metrics"
	"github.com/nethesis/media-image-popup/models"
)

// FormatterID is the plugin id the popup formatter is registered under.
const FormatterID = "media_image_popup"

// PopupRoutePrefix is the path of the popup route without its parameters.
const PopupRoutePrefix = "/media_image_popup/render"

const (
	labelOriginalImage = "Original image"
	labelNoStyle       = "None (original image)"
)

// Formatter renders the items of a field for display.
type Formatter interface {
	Definition() models.FormatterDefinition
	DefaultSettings() models.FormatterSettings
	SettingsForm(ctx context.Context, settings models.FormatterSettings) (*models.SettingsForm, error)
	SettingsSummary(ctx context.Context, settings models.FormatterSettings) ([]string, error)
	ViewElements(ctx context.Context, rc models.RenderContext, settings models.FormatterSettings, items []models.MediaReference) ([]models.RenderElement, error)
	IsApplicable(field models.FieldDefinition) bool
}

// imageFormatterBase carries what every image formatter offers: an image
// style select and a link target select.
type imageFormatterBase struct {
	styles ImageStyleStorage
}

func (b imageFormatterBase) defaultSettings() models.FormatterSettings {
	return models.FormatterSettings{}
}

// styleOptions lists the configured image styles as select options.
func (b imageFormatterBase) styleOptions(ctx context.Context) ([]models.SelectOption, error) {
	styles, err := b.styles.ListImageStyles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list image styles: %w", err)
	}
	options := make([]models.SelectOption, 0, len(styles))
	for _, s := range styles {
		options = append(options, models.SelectOption{Value: s.Name, Label: s.Label})
	}
	return options, nil
}

func (b imageFormatterBase) settingsForm(ctx context.Context, settings models.FormatterSettings) (*models.SettingsForm, error) {
	options, err := b.styleOptions(ctx)
	if err != nil {
		return nil, err
	}
	return &models.SettingsForm{Elements: []models.SelectElement{
		{
			Name:         models.SettingImageStyle,
			Title:        "Image style",
			DefaultValue: settings.ImageStyle,
			EmptyOption:  labelNoStyle,
			Options:      options,
		},
		{
			Name:         models.SettingImageLink,
			Title:        "Link image to",
			DefaultValue: settings.ImageLink,
			EmptyOption:  "Nothing",
			Options: []models.SelectOption{
				{Value: "content", Label: "Content"},
				{Value: "file", Label: "File"},
			},
		},
	}}, nil
}

// MediaImagePopupFormatter renders media thumbnails linking to a modal popup
// of the larger image.
type MediaImagePopupFormatter struct {
	imageFormatterBase
	media  MediaStorage
	images *ImageRenderer
}

var _ Formatter = (*MediaImagePopupFormatter)(nil)

// NewMediaImagePopupFormatter wires the storages and the image renderer.
func NewMediaImagePopupFormatter(media MediaStorage, styles ImageStyleStorage, images *ImageRenderer) *MediaImagePopupFormatter {
	return &MediaImagePopupFormatter{
		imageFormatterBase: imageFormatterBase{styles: styles},
		media:              media,
		images:             images,
	}
}

// Definition returns the registration record of the formatter.
func (f *MediaImagePopupFormatter) Definition() models.FormatterDefinition {
	return models.FormatterDefinition{
		ID:         FormatterID,
		Label:      "Media Image Popup",
		FieldTypes: []string{"entity_reference"},
	}
}

// DefaultSettings leaves both styles empty, i.e. the original image.
func (f *MediaImagePopupFormatter) DefaultSettings() models.FormatterSettings {
	return f.defaultSettings()
}

// SettingsForm offers the thumbnail and popup style selects. The link
// select of the base form is dropped since the link always opens the popup.
func (f *MediaImagePopupFormatter) SettingsForm(ctx context.Context, settings models.FormatterSettings) (*models.SettingsForm, error) {
	form, err := f.settingsForm(ctx, settings)
	if err != nil {
		return nil, err
	}
	form.Remove(models.SettingImageLink)

	options := form.Element(models.SettingImageStyle).Options
	form.Set(models.SelectElement{
		Name:         models.SettingImageStyle,
		Title:        "Image style",
		DefaultValue: settings.ImageStyle,
		EmptyOption:  labelNoStyle,
		Options:      options,
	})
	form.Set(models.SelectElement{
		Name:         models.SettingImageStylePopup,
		Title:        "Popup Image style",
		DefaultValue: settings.ImageStylePopup,
		EmptyOption:  labelNoStyle,
		Options:      options,
	})
	return form, nil
}

// SettingsSummary describes both configured styles. Styles that no longer
// exist are reported as the original image.
func (f *MediaImagePopupFormatter) SettingsSummary(ctx context.Context, settings models.FormatterSettings) ([]string, error) {
	options, err := f.styleOptions(ctx)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(options))
	for _, o := range options {
		labels[o.Value] = o.Label
	}

	styleLabel := func(name string) string {
		if label, ok := labels[name]; ok && name != "" {
			return label
		}
		return labelOriginalImage
	}

	return []string{
		"Image style: " + styleLabel(settings.ImageStyle),
		"Image style popup: " + styleLabel(settings.ImageStylePopup),
	}, nil
}

// IsApplicable limits the formatter to reference fields targeting media.
func (f *MediaImagePopupFormatter) IsApplicable(field models.FieldDefinition) bool {
	return field.TargetType == models.EntityTypeMedia
}

type mediaToView struct {
	delta int
	media *models.Media
}

// entitiesToView loads the referenced media, keeping each item's delta.
// Unsaved entities are used as they are; references that do not load are
// left out.
func (f *MediaImagePopupFormatter) entitiesToView(ctx context.Context, items []models.MediaReference) ([]mediaToView, error) {
	var out []mediaToView
	for delta, item := range items {
		if item.HasNewEntity() {
			out = append(out, mediaToView{delta: delta, media: item.Entity})
			continue
		}
		if item.TargetID <= 0 {
			logger.Warn().Int("delta", delta).Msg("media reference without target, skipping")
			metrics.FormatterSkippedTotal.Inc()
			continue
		}
		m, err := f.media.LoadMedia(ctx, item.TargetID)
		if err != nil {
			return nil, fmt.Errorf("load media %d: %w", item.TargetID, err)
		}
		if m == nil {
			logger.Warn().Int("delta", delta).Int64("mid", item.TargetID).Msg("referenced media not found, skipping")
			metrics.FormatterSkippedTotal.Inc()
			continue
		}
		out = append(out, mediaToView{delta: delta, media: m})
	}
	return out, nil
}

// ViewElements renders one popup-linked thumbnail per referenced media item.
func (f *MediaImagePopupFormatter) ViewElements(ctx context.Context, rc models.RenderContext, settings models.FormatterSettings, items []models.MediaReference) ([]models.RenderElement, error) {
	elements := []models.RenderElement{}

	toView, err := f.entitiesToView(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(toView) == 0 {
		return elements, nil
	}

	for _, v := range toView {
		thumb := v.media.Thumbnail

		attrs := ImageAttributes{
			Theme:  ThemeImage,
			URI:    thumb.ResolvedURI(),
			Width:  thumb.Width,
			Height: thumb.Height,
			Alt:    thumb.Alt,
		}
		if settings.ImageStyle != "" {
			attrs.Theme = ThemeImageStyle
			attrs.StyleName = settings.ImageStyle
		}
		if strings.TrimSpace(thumb.Title) != "" {
			attrs.Title = thumb.Title
		}
		if attrs.URI == "" {
			logger.Warn().Int("delta", v.delta).Int64("mid", v.media.ID).Msg("media has no thumbnail, skipping")
			metrics.FormatterSkippedTotal.Inc()
			continue
		}

		img, err := f.images.Render(ctx, rc, attrs)
		if err != nil {
			return nil, fmt.Errorf("render thumbnail of media %d: %w", v.media.ID, err)
		}

		href := PopupHref(rc.SiteBaseURL, popupFileID(v.media), settings.ImageStylePopup)
		elements = append(elements, models.RenderElement{
			Delta:  v.delta,
			Markup: `<a href="` + html.EscapeString(href) + `" class="use-ajax" data-dialog-type="modal">` + img + `</a>`,
			Attached: models.Attachments{
				Libraries: []string{models.LibraryDialogAjax},
			},
		})
	}

	metrics.FormatterElementsTotal.Add(float64(len(elements)))
	logger.Debug().Int("items", len(items)).Int("elements", len(elements)).Str("image_style", settings.ImageStyle).Str("image_style_popup", settings.ImageStylePopup).Msg("media image popup field rendered")
	return elements, nil
}

// popupFileID is the file the popup shows: the media's source image, or its
// thumbnail file for media without one.
func popupFileID(m *models.Media) int64 {
	if m.ImageFileID > 0 {
		return m.ImageFileID
	}
	return m.Thumbnail.TargetID
}

// PopupHref builds the link to the popup route for file fid. An empty
// style keeps the trailing slash; the router strips it.
func PopupHref(baseURL string, fid int64, popupStyle string) string {
	return fmt.Sprintf("%s%s/%d/%s", strings.TrimRight(baseURL, "/"), PopupRoutePrefix, fid, url.PathEscape(popupStyle))
}
