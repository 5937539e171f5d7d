package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinizap/pinnotes/auth"
	"github.com/vinizap/pinnotes/domain"
	"github.com/vinizap/pinnotes/store"
)

// AjaxPath is where position saves are posted.
const AjaxPath = "/ajax"

// NewApp builds the fiber app with every route of the service.
func NewApp(s *Server, users *auth.Directory) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "pinnotes",
		ErrorHandler: s.errorHandler,
	})

	app.Use(requestLogger(s.logger))
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "Content-Type, " + domain.TokenHeader,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authn := auth.Middleware(users)

	api := app.Group("/api", authn)
	api.Get("/pages/:page/notes", s.HandlePageNotes)
	api.Get("/notes", s.HandleMyNotes)
	api.Post("/notes", s.HandleCreateNote)

	app.Post(AjaxPath, authn, s.HandleAjax)

	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code, msg = fe.Code, fe.Message
	case errors.Is(err, store.ErrNotFound):
		code, msg = fiber.StatusNotFound, "Note not found"
	case errors.Is(err, store.ErrInvalid):
		code, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrUnavailable):
		code, msg = fiber.StatusServiceUnavailable, "Storage unavailable"
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func requestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, id)

		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Debug().
			Str("request_id", id).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).
			Msg("request")
		return nil
	}
}
