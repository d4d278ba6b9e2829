package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/config"
	"github.com/spec-kit/course-service/internal/observability"
)

// NewApp builds the Fiber application with the envelope error handler and the global
// middleware chain. Routes are registered separately.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	fiberCfg := fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler(logger, metrics),
	}
	if cfg.BodyLimitMB > 0 {
		fiberCfg.BodyLimit = cfg.BodyLimitMB * 1024 * 1024
	}

	app := fiber.New(fiberCfg)
	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{
		Timeout:     cfg.RequestTimeout(),
		CORSOrigins: cfg.CORSOrigins,
	})
	return app
}
