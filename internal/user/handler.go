package user

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/authgate/internal/router"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) PublicRoutes() []router.Route {
	return []router.Route{
		{Method: fiber.MethodPost, Path: "/signup", Handler: h.signup},
		{Method: fiber.MethodPost, Path: "/login", Handler: h.login},
	}
}

func (h *Handler) ProtectedRoutes() []router.Route {
	return []router.Route{
		{Method: fiber.MethodGet, Path: "/protected", Handler: h.protected},
	}
}

func (h *Handler) signup(c *fiber.Ctx) error {
	creds, err := parseCredentials(c)
	if err != nil {
		return h.fail(c, err)
	}

	created, err := h.service.Signup(c.UserContext(), creds)
	if err != nil {
		return h.fail(c, err)
	}

	h.logger.InfoContext(c.UserContext(), "user signed up", slog.Int64("user_id", created.ID))
	return c.Status(fiber.StatusCreated).JSON(messageResponse{Message: "User created successfully!"})
}

func (h *Handler) login(c *fiber.Ctx) error {
	creds, err := parseCredentials(c)
	if err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.Login(c.UserContext(), creds)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(toLoginResponse(result))
}

// protected runs behind jwtware, so the token has already been verified.
func (h *Handler) protected(c *fiber.Ctx) error {
	userID, err := UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "Invalid or expired token"})
	}

	user, err := h.service.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(toProfileResponse(user))
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var missing *MissingFieldError
	switch {
	case errors.As(err, &missing):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: missing.Error()})
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMalformedInput):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid or empty JSON"})
	case errors.Is(err, ErrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(messageResponse{Message: "This user already exists"})
	case errors.Is(err, ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "Invalid email or password"})
	case errors.Is(err, ErrNotFound):
		h.logger.WarnContext(c.UserContext(), "token subject has no user", slog.String("path", c.Path()))
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "User not found"})
	default:
		return err
	}
}

// parseCredentials accepts only a JSON object body. Anything else, including
// a missing JSON content type, is malformed input.
func parseCredentials(c *fiber.Ctx) (Credentials, error) {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || body[0] != '{' {
		return Credentials{}, ErrMalformedInput
	}

	var creds Credentials
	if err := c.BodyParser(&creds); err != nil {
		return Credentials{}, ErrMalformedInput
	}
	return creds, nil
}
