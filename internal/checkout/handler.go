package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/storefront-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout/summary", h.summary)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.placeOrder)
}

func (h *Handler) summary(c *fiber.Ctx) error {
	payload := new(SummaryRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	res, err := h.service.Summary(*payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": res})
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	payload := new(Request)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload.ClientIP = c.IP()

	res, err := h.service.PlaceOrder(c.UserContext(), userID, *payload)
	if err != nil {
		if errors.Is(err, ErrPaymentLink) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error(), "orderId": res.Order.OrderID})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": res})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrAddressRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"code": "address_required", "message": err.Error()})
	case errors.Is(err, ErrInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
