// Package router turns an explicit route table into a Fiber app. Feature
// handlers describe their routes; nothing registers itself globally.
package router

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/google/uuid"

	"github.com/wichananm65/authgate/internal/logging"
)

type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// Table splits routes by whether a verified bearer token is required.
type Table struct {
	Public    []Route
	Protected []Route
}

type Options struct {
	Prefix       string
	AllowOrigins string
	SigningKey   []byte
	Logger       *slog.Logger
}

func New(table Table, opts Options) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AllowOrigins == "" {
		opts.AllowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(opts.Logger),
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logging.RequestLogger(opts.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group(opts.Prefix)
	for _, r := range table.Public {
		api.Add(r.Method, r.Path, r.Handler)
	}

	requireToken := jwtware.New(jwtware.Config{
		SigningKey:    opts.SigningKey,
		SigningMethod: "HS256",
		ErrorHandler:  unauthorized,
	})
	for _, r := range table.Protected {
		api.Add(r.Method, r.Path, requireToken, r.Handler)
	}

	return app
}

// unauthorized answers every token failure with 401, including a missing
// header, which jwtware would otherwise report as 400.
func unauthorized(c *fiber.Ctx, err error) error {
	msg := "Invalid or expired token"
	if err != nil && err.Error() == "Missing or malformed JWT" {
		msg = "Missing or malformed token"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			logger.ErrorContext(c.UserContext(), "unhandled error", slog.Any("error", err), slog.String("path", c.Path()))
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
