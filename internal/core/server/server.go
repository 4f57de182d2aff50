package server

import (
	"errors"
	"fmt"

	"courier-tracker/internal/core/config"
	"courier-tracker/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "courier-tracker/docs/swagger"
)

// RayIDHeader carries the request id back to the caller.
const RayIDHeader = "X-Ray-ID"

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// API is the /api route group; every response under it is marked no-store.
	API fiber.Router
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "courier-tracker",
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header:    RayIDHeader,
		Generator: uuid.NewString,
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return &Server{
		App: app,
		API: app.Group("/api", NoStore()),
		cfg: cfg,
	}
}

// NoStore marks responses as uncacheable. Tracking data changes between
// requests and some responses are password protected.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}

// errorHandler renders errors that escaped a handler as ErrorResponse.
// Anything other than a *fiber.Error is a 500 carrying the error message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		logger.Get().Error("Unhandled error",
			zap.String("path", c.Path()),
			zap.String("ray_id", RayID(c)),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: msg,
		RayID: RayID(c),
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}
