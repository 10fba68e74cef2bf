package hello

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/authgate/internal/router"
)

const Message = "Hello! I'm a message that came from the backend, check the network tab on the google inspector and you will see the GET request"

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Method: fiber.MethodGet, Path: "/hello", Handler: h.hello},
		{Method: fiber.MethodPost, Path: "/hello", Handler: h.hello},
	}
}

func (h *Handler) hello(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": Message})
}
