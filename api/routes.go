package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nethesis/media-image-popup/logger"
	"github.com/nethesis/media-image-popup/models"
	"github.com/nethesis/media-image-popup/service"
)

const adminTokenHeader = "X-Admin-Token"

// RegisterRoutes wires API endpoints to Echo handlers.
func RegisterRoutes(e *echo.Echo, resolver *service.PopupResolver, formatter service.Formatter, entities *service.EntityService, renderer *service.Renderer, cfg *service.Config) {
	e.Renderer = &templateRenderer{renderer: renderer}

	h := handler{
		resolver:   resolver,
		formatter:  formatter,
		entities:   entities,
		baseURL:    cfg.BaseURL,
		adminToken: cfg.AdminToken,
	}

	e.GET(service.PopupRoutePrefix+"/:fid", h.renderPopup)
	e.GET(service.PopupRoutePrefix+"/:fid/:image_style", h.renderPopup)

	fg := e.Group("/api/formatter/" + service.FormatterID)
	fg.GET("", h.formatterDefinition)
	fg.GET("/settings_form", h.settingsForm)
	fg.GET("/settings_summary", h.settingsSummary)
	fg.GET("/applicable", h.isApplicable)
	fg.POST("/view", h.viewElements)

	ig := e.Group("/api/internal", h.requireAdmin)
	ig.POST("/files", h.saveFile)
	ig.POST("/media", h.saveMedia)
	ig.POST("/image_styles", h.saveImageStyle)
}

type handler struct {
	resolver   *service.PopupResolver
	formatter  service.Formatter
	entities   *service.EntityService
	baseURL    string
	adminToken string
}

// renderContext replaces the site-wide base URL with a request-scoped one.
func (h handler) renderContext(c echo.Context) models.RenderContext {
	base := h.baseURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return models.RenderContext{SiteBaseURL: strings.TrimRight(base, "/")}
}

func (h handler) renderPopup(c echo.Context) error {
	fid, err := strconv.ParseInt(c.Param("fid"), 10, 64)
	if err != nil || fid <= 0 {
		logger.Warn().Str("endpoint", "render_popup").Str("fid", c.Param("fid")).Msg("invalid file id")
		return echo.NewHTTPError(http.StatusBadRequest, service.ErrInvalidFileID.Error())
	}
	style := c.Param("image_style")

	logger.Debug().Str("endpoint", "render_popup").Int64("fid", fid).Str("image_style", style).Msg("resolving popup image")

	details, err := h.resolver.Render(c.Request().Context(), h.renderContext(c), fid, style)
	if err != nil {
		logger.Error().Str("endpoint", "render_popup").Int64("fid", fid).Str("image_style", style).Err(err).Msg("failed to resolve popup image")
		return mapServiceError(err)
	}

	logger.Info().Str("endpoint", "render_popup").Int64("fid", fid).Str("image_style", style).Str("url_popup", details.URLPopup).Msg("popup image resolved")
	return c.Render(http.StatusOK, service.ThemePopupDetails, map[string]any{"url_popup": service.ImageSource(details.URLPopup)})
}

func (h handler) formatterDefinition(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"definition":       h.formatter.Definition(),
		"default_settings": h.formatter.DefaultSettings(),
	})
}

func (h handler) bindSettings(c echo.Context, endpoint string) (models.FormatterSettings, error) {
	settings := h.formatter.DefaultSettings()
	if err := c.Bind(&settings); err != nil {
		logger.Warn().Str("endpoint", endpoint).Err(err).Msg("invalid formatter settings")
		return settings, echo.NewHTTPError(http.StatusBadRequest, "invalid settings")
	}
	return settings, nil
}

func (h handler) settingsForm(c echo.Context) error {
	settings, err := h.bindSettings(c, "settings_form")
	if err != nil {
		return err
	}

	form, err := h.formatter.SettingsForm(c.Request().Context(), settings)
	if err != nil {
		logger.Error().Str("endpoint", "settings_form").Err(err).Msg("failed to build settings form")
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, form)
}

func (h handler) settingsSummary(c echo.Context) error {
	settings, err := h.bindSettings(c, "settings_summary")
	if err != nil {
		return err
	}

	summary, err := h.formatter.SettingsSummary(c.Request().Context(), settings)
	if err != nil {
		logger.Error().Str("endpoint", "settings_summary").Err(err).Msg("failed to build settings summary")
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"summary": summary})
}

func (h handler) isApplicable(c echo.Context) error {
	field := models.FieldDefinition{
		Name:       c.QueryParam("field_name"),
		Type:       c.QueryParam("type"),
		TargetType: strings.TrimSpace(c.QueryParam("target_type")),
	}
	return c.JSON(http.StatusOK, map[string]bool{"applicable": h.formatter.IsApplicable(field)})
}

func (h handler) viewElements(c echo.Context) error {
	req := models.ViewRequest{Settings: h.formatter.DefaultSettings()}
	if err := c.Bind(&req); err != nil {
		logger.Warn().Str("endpoint", "view").Err(err).Msg("invalid request payload")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if !h.formatter.IsApplicable(req.Field) {
		logger.Warn().Str("endpoint", "view").Str("field", req.Field.Name).Str("target_type", req.Field.TargetType).Msg("formatter not applicable to field")
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "formatter only applies to fields referencing media")
	}

	logger.Debug().Str("endpoint", "view").Str("field", req.Field.Name).Int("items", len(req.Items)).Msg("rendering field")

	elements, err := h.formatter.ViewElements(c.Request().Context(), h.renderContext(c), req.Settings, req.Items)
	if err != nil {
		logger.Error().Str("endpoint", "view").Str("field", req.Field.Name).Err(err).Msg("failed to render field")
		return mapServiceError(err)
	}

	logger.Info().Str("endpoint", "view").Str("field", req.Field.Name).Int("elements", len(elements)).Msg("field rendered")
	return c.JSON(http.StatusOK, models.ViewResponse{Elements: elements})
}

func (h handler) saveFile(c echo.Context) error {
	var f models.File
	if err := c.Bind(&f); err != nil {
		logger.Warn().Str("endpoint", "save_file").Err(err).Msg("invalid request payload")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.entities.SaveFile(c.Request().Context(), &f); err != nil {
		logger.Error().Str("endpoint", "save_file").Int64("fid", f.ID).Err(err).Msg("failed to save file")
		return mapServiceError(err)
	}
	logger.Info().Str("endpoint", "save_file").Int64("fid", f.ID).Msg("file saved")
	return c.JSON(http.StatusOK, f)
}

func (h handler) saveMedia(c echo.Context) error {
	var m models.Media
	if err := c.Bind(&m); err != nil {
		logger.Warn().Str("endpoint", "save_media").Err(err).Msg("invalid request payload")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.entities.SaveMedia(c.Request().Context(), &m); err != nil {
		logger.Error().Str("endpoint", "save_media").Int64("mid", m.ID).Err(err).Msg("failed to save media")
		return mapServiceError(err)
	}
	logger.Info().Str("endpoint", "save_media").Int64("mid", m.ID).Msg("media saved")
	return c.JSON(http.StatusOK, m)
}

func (h handler) saveImageStyle(c echo.Context) error {
	var s models.ImageStyle
	if err := c.Bind(&s); err != nil {
		logger.Warn().Str("endpoint", "save_image_style").Err(err).Msg("invalid request payload")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.entities.SaveImageStyle(c.Request().Context(), &s); err != nil {
		logger.Error().Str("endpoint", "save_image_style").Str("style", s.Name).Err(err).Msg("failed to save image style")
		return mapServiceError(err)
	}
	logger.Info().Str("endpoint", "save_image_style").Str("style", s.Name).Msg("image style saved")
	return c.JSON(http.StatusOK, s)
}

func (h handler) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.adminToken == "" {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "internal API disabled")
		}
		if !isLocalhost(c.RealIP()) {
			return echo.NewHTTPError(http.StatusForbidden, "internal API only available from localhost")
		}
		token := c.Request().Header.Get(adminTokenHeader)
		if token == "" || token != h.adminToken {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
		}
		return next(c)
	}
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidFileID), errors.Is(err, service.ErrInvalidEntity):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFileNotFound), errors.Is(err, service.ErrImageStyleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func isLocalhost(ip string) bool {
	trimmed := ip
	if colon := strings.LastIndex(trimmed, ":"); colon != -1 && !strings.Contains(trimmed[:colon], ":") {
		trimmed = trimmed[:colon]
	}
	switch trimmed {
	case "127.0.0.1", "::1", "localhost":
		return true
	default:
		return false
	}
}
