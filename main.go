package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nethesis/media-image-popup/api"
	"github.com/nethesis/media-image-popup/db"
	"github.com/nethesis/media-image-popup/logger"
	"github.com/nethesis/media-image-popup/metrics"
	"github.com/nethesis/media-image-popup/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Initialize logger from LOGLEVEL env var (default: INFO)
	logLevel := os.Getenv("LOGLEVEL")
	if logLevel == "" {
		logLevel = string(logger.LevelInfo)
	}
	logger.Init(logger.Level(logLevel))
	logger.Info().Str("level", logLevel).Msg("logger initialized")

	cfg, err := service.NewConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	store, err := db.NewDatabase(cfg.EntityDBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.EntityDBPath).Msg("failed to open entity database")
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close entity database")
		}
	}()

	renderer, err := service.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	e := newServer(cfg, store, renderer)

	logger.Info().Str("port", cfg.ListenPort).Str("base_url", cfg.BaseURL).Msg("starting server")
	if err := e.Start(":" + cfg.ListenPort); err != nil {
		logger.Error().Err(err).Msg("server stopped")
	}
}

// newServer builds the echo instance with all routes registered.
func newServer(cfg *service.Config, store service.EntityStore, renderer *service.Renderer) *echo.Echo {
	styles := service.NewCachedImageStyles(store, cfg.StyleCacheTTL)
	urls := service.NewFileURLGenerator(cfg)
	styler := service.NewImageStyler(urls, cfg.ImageTokenKey)

	resolver := service.NewPopupResolver(store, styles, urls, styler)
	formatter := service.NewMediaImagePopupFormatter(store, styles, service.NewImageRenderer(renderer, urls, styler, styles))
	entities := service.NewEntityService(store, styles)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api.RegisterRoutes(e, resolver, formatter, entities, renderer, cfg)
	return e
}
