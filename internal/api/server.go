package api

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/insightdelivered/receivables-extractor/internal/config"
	"github.com/insightdelivered/receivables-extractor/internal/logging"
)

// NewApp builds the fiber app: middleware, API routes and, when
// cfg.Server.StaticDir is set, the upload page.
func NewApp(cfg *config.Config, logger *zap.Logger, version string) *fiber.App {
	logger = logging.OrNop(logger)

	app := fiber.New(fiber.Config{
		AppName:               "receivables-extractor " + version,
		BodyLimit:             cfg.Server.BodyLimitMB << 20,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	h := &Handler{
		Layout:        cfg.Layout,
		Logger:        logger,
		Version:       version,
		IncludeHeader: cfg.Export.IncludeHeader,
	}
	h.Register(app)

	if cfg.Server.StaticDir != "" {
		serveSPA(app, cfg.Server.StaticDir)
	}
	return app
}

// Register mounts the API routes.
func (h *Handler) Register(app fiber.Router) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Post("/convert", h.HandleConvert)
}

// serveSPA serves the built upload page; unknown non-API paths fall back to
// index.html.
func serveSPA(app *fiber.App, dir string) {
	app.Static("/", dir)
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return fiber.ErrNotFound
		}
		return c.SendFile(filepath.Join(dir, "index.html"))
	})
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", zap.String("request_id", reqID), zap.String("path", c.Path()), zap.Error(err))
		}
		return writeError(c, code, reqID, err.Error())
	}
}
