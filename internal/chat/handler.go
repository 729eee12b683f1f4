package chat

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the shopping assistant. Error bodies use {error} rather
// than {message} because the chat widget reads that field.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.All("/api/chat/groq", h.handle)
}

func (h *Handler) handle(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Method not allowed"})
	}

	payload := new(Request)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	res, err := h.service.Reply(c.UserContext(), *payload)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
		}
		h.service.log.WithError(err).Error("chat: completion failed")

		switch status := statusFor(err); status {
		case fiber.StatusUnauthorized:
			return c.Status(status).JSON(fiber.Map{"error": "Invalid API key"})
		case fiber.StatusTooManyRequests:
			return c.Status(status).JSON(fiber.Map{"error": "Rate limit exceeded. Please try again later."})
		default:
			return c.Status(status).JSON(fiber.Map{"error": "Internal server error", "details": err.Error()})
		}
	}
	return c.JSON(res)
}
