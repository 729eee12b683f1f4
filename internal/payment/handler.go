package payment

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/storefront-backend/internal/order"
	"github.com/wichananm65/storefront-backend/internal/user"
)

// Orders is the slice of the order service the payment flow needs.
type Orders interface {
	GetByID(id int) (order.Order, error)
	GetForUser(userID, id int) (order.Order, error)
	MarkPaid(id int) (order.Order, error)
}

type Handler struct {
	gateway *VNPay
	orders  Orders
	log     *logrus.Entry
}

func NewHandler(gateway *VNPay, orders Orders, log *logrus.Entry) *Handler {
	return &Handler{gateway: gateway, orders: orders, log: log}
}

// RegisterPublicRoutes exposes the gateway return URL; the browser lands
// there without a bearer token.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/payment/vnpay/return", h.vnpayReturn)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/vnpay", h.createURL)
}

type createURLRequest struct {
	OrderID  int    `json:"orderId"`
	Language string `json:"language"`
}

// createURL issues a fresh payment URL for an unpaid order, e.g. when the
// customer closed the first gateway tab.
func (h *Handler) createURL(c *fiber.Ctx) error {
	payload := new(createURLRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ord, err := h.orders.GetForUser(userID, payload.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if ord.IsPaid {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "order already paid"})
	}

	u, err := h.gateway.BuildURL(URLRequest{OrderID: ord.OrderID, Amount: ord.TotalPrice, Language: payload.Language, ClientIP: c.IP()})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"data": u})
}

func (h *Handler) vnpayReturn(c *fiber.Ctx) error {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid query"})
	}

	res, err := h.gateway.VerifyReturn(q)
	if err != nil {
		h.log.WithError(err).Warn("rejected vnpay return")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	log := h.log.WithFields(logrus.Fields{"order_id": res.OrderID, "txn_ref": res.TxnRef, "response_code": res.ResponseCode})

	ord, err := h.orders.GetByID(res.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if res.Amount != ord.TotalPrice {
		log.WithField("amount", res.Amount).Warn("vnpay amount mismatch")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "amount mismatch"})
	}
	if !res.Success {
		log.Info("vnpay payment not completed")
		return c.JSON(fiber.Map{"status": "failed", "code": res.ResponseCode, "orderId": ord.OrderID})
	}

	paid, err := h.orders.MarkPaid(ord.OrderID)
	if err != nil {
		log.WithError(err).Error("mark order paid")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	log.Info("vnpay payment completed")
	return c.JSON(fiber.Map{"status": "paid", "data": paid})
}
