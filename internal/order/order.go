package order

import (
	"time"

	"github.com/wichananm65/storefront-backend/internal/cart"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusPaid      = "paid"
)

// Order represents a purchase made by a user. Items is the line-item
// snapshot at checkout; amounts are whole VND.
type Order struct {
	OrderID       int             `json:"orderId"`
	UserID        int             `json:"userId"`
	Items         []cart.LineItem `json:"items"`
	ItemsPrice    int64           `json:"itemsPrice"`
	Discount      int64           `json:"discount"`
	ShippingPrice int64           `json:"shippingPrice"`
	TotalPrice    int64           `json:"totalPrice"`
	DeliveryID    int             `json:"deliveryId"`
	PaymentID     int             `json:"paymentId"`
	FullName      string          `json:"fullName"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	Status        string          `json:"status"`
	IsPaid        bool            `json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
