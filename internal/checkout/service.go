package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/storefront-backend/internal/address"
	"github.com/wichananm65/storefront-backend/internal/cart"
	"github.com/wichananm65/storefront-backend/internal/deliverytype"
	"github.com/wichananm65/storefront-backend/internal/logger"
	"github.com/wichananm65/storefront-backend/internal/order"
	"github.com/wichananm65/storefront-backend/internal/payment"
	"github.com/wichananm65/storefront-backend/internal/paymenttype"
	"github.com/wichananm65/storefront-backend/internal/pricing"
	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/user"
)

// MaxLineAmount caps the quantity of one product in a single order.
const MaxLineAmount = 999

var (
	// ErrAddressRequired means the user has no default shipping address yet.
	ErrAddressRequired = errors.New("default address required")
	ErrInvalid         = errors.New("invalid checkout request")
	// ErrPaymentLink is returned with a created order whose gateway URL
	// could not be built. The order stays pending.
	ErrPaymentLink = errors.New("payment link unavailable")
)

type AddressBook interface {
	DefaultAddress(userID int) (address.Address, error)
}

type Deliveries interface {
	GetByID(id int) (deliverytype.DeliveryType, error)
}

type Payments interface {
	GetByID(id int) (paymenttype.PaymentType, error)
}

type Catalog interface {
	ListByIDs(ids []int) ([]product.Product, error)
}

type Orders interface {
	Create(ord order.Order) (order.Order, error)
}

type PaymentLinks interface {
	BuildURL(req payment.URLRequest) (string, error)
}

type CartSubtracter interface {
	Subtract(ctx context.Context, userID int, ordered []cart.LineItem) ([]cart.LineItem, error)
}

type Profiles interface {
	GetByID(id int) (user.User, error)
}

// Deps wires the collaborators of a checkout Service.
type Deps struct {
	Addresses  AddressBook
	Deliveries Deliveries
	Payments   Payments
	Catalog    Catalog
	Orders     Orders
	Links      PaymentLinks
	Cart       CartSubtracter
	Users      Profiles
	Promos     pricing.PromoTable
	Log        *logrus.Entry
}

type Service struct {
	Deps
}

func NewService(d Deps) *Service {
	if d.Promos == nil {
		d.Promos = pricing.DefaultPromos
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	return &Service{Deps: d}
}

// SummaryRequest is the order-summary input. DeliveryID 0 means no
// delivery option is selected yet.
type SummaryRequest struct {
	Items      []cart.LineItem `json:"items"`
	DeliveryID int             `json:"deliveryId"`
	PromoCode  string          `json:"promoCode"`
}

type SummaryResult struct {
	Items []cart.LineItem `json:"items"`
	pricing.Amounts
}

// Summary prices the selected items with catalog prices.
func (s *Service) Summary(req SummaryRequest) (SummaryResult, error) {
	items, err := s.reprice(req.Items)
	if err != nil {
		return SummaryResult{}, err
	}
	shipping := decimal.Zero
	if req.DeliveryID != 0 {
		d, err := s.delivery(req.DeliveryID)
		if err != nil {
			return SummaryResult{}, err
		}
		shipping = decimal.NewFromInt(d.Price)
	}
	amounts, err := s.amounts(items, shipping, req.PromoCode)
	if err != nil {
		return SummaryResult{}, err
	}
	return SummaryResult{Items: items, Amounts: amounts}, nil
}

type Request struct {
	Items      []cart.LineItem `json:"items"`
	DeliveryID int             `json:"deliveryId"`
	PaymentID  int             `json:"paymentId"`
	PromoCode  string          `json:"promoCode"`
	Language   string          `json:"language"`
	ClientIP   string          `json:"-"`
}

// Result is either completed or carries the gateway URL to redirect to.
type Result struct {
	Order       order.Order `json:"order"`
	RedirectURL string      `json:"redirectUrl,omitempty"`
	Completed   bool        `json:"completed"`
}

// PlaceOrder creates an order for the selected items. Without a default
// address nothing else is touched and ErrAddressRequired is returned.
func (s *Service) PlaceOrder(ctx context.Context, userID int, req Request) (Result, error) {
	addr, err := s.Addresses.DefaultAddress(userID)
	if err != nil {
		if errors.Is(err, address.ErrNoDefault) {
			return Result{}, ErrAddressRequired
		}
		return Result{}, fmt.Errorf("load default address: %w", err)
	}

	if len(req.Items) == 0 {
		return Result{}, fmt.Errorf("%w: no items selected", ErrInvalid)
	}
	if req.DeliveryID <= 0 {
		return Result{}, fmt.Errorf("%w: delivery option required", ErrInvalid)
	}
	if req.PaymentID <= 0 {
		return Result{}, fmt.Errorf("%w: payment option required", ErrInvalid)
	}

	delivery, err := s.delivery(req.DeliveryID)
	if err != nil {
		return Result{}, err
	}
	pay, err := s.Payments.GetByID(req.PaymentID)
	if err != nil {
		if errors.Is(err, paymenttype.ErrNotFound) {
			return Result{}, fmt.Errorf("%w: unknown payment option %d", ErrInvalid, req.PaymentID)
		}
		return Result{}, fmt.Errorf("load payment option: %w", err)
	}

	items, err := s.reprice(req.Items)
	if err != nil {
		return Result{}, err
	}
	amounts, err := s.amounts(items, decimal.NewFromInt(delivery.Price), req.PromoCode)
	if err != nil {
		return Result{}, err
	}

	created, err := s.Orders.Create(order.Order{
		UserID:        userID,
		Items:         items,
		ItemsPrice:    amounts.Subtotal,
		Discount:      amounts.Discount,
		ShippingPrice: amounts.Shipping,
		TotalPrice:    amounts.Total,
		DeliveryID:    delivery.ID,
		PaymentID:     pay.ID,
		FullName:      s.fullName(userID, addr),
		Address:       addr.AddressDesc,
		Phone:         addr.Phone,
	})
	if err != nil {
		return Result{}, fmt.Errorf("create order: %w", err)
	}
	log := s.Log.WithFields(logrus.Fields{"user_id": userID, "order_id": created.OrderID, "payment_type": pay.Type})

	res := Result{Order: created}
	var linkErr error
	if pay.RequiresRedirect() {
		res.RedirectURL, linkErr = s.Links.BuildURL(payment.URLRequest{
			OrderID:  created.OrderID,
			Amount:   created.TotalPrice,
			Language: req.Language,
			ClientIP: req.ClientIP,
		})
		if linkErr != nil {
			log.WithError(linkErr).Error("build payment url")
			linkErr = fmt.Errorf("%w: %v", ErrPaymentLink, linkErr)
		}
	} else {
		res.Completed = true
	}

	if _, err := s.Cart.Subtract(ctx, userID, items); err != nil {
		log.WithError(err).Warn("subtract ordered items from cart")
	}
	log.Info("order placed")
	return res, linkErr
}

func (s *Service) delivery(id int) (deliverytype.DeliveryType, error) {
	d, err := s.Deliveries.GetByID(id)
	if err != nil {
		if errors.Is(err, deliverytype.ErrNotFound) {
			return deliverytype.DeliveryType{}, fmt.Errorf("%w: unknown delivery option %d", ErrInvalid, id)
		}
		return deliverytype.DeliveryType{}, fmt.Errorf("load delivery option: %w", err)
	}
	return d, nil
}

func (s *Service) amounts(items []cart.LineItem, shipping decimal.Decimal, promo string) (pricing.Amounts, error) {
	discount := s.Promos.Apply(promo, pricing.Subtotal(items))
	a, err := pricing.ComputeSummary(items, shipping, discount).Amounts()
	if err != nil {
		return pricing.Amounts{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return a, nil
}

// reprice replaces client-sent name, price and discount with catalog values.
// Repeated products are merged in first-seen order.
func (s *Service) reprice(selected []cart.LineItem) ([]cart.LineItem, error) {
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no items selected", ErrInvalid)
	}

	amounts := make(map[int]int, len(selected))
	ids := make([]int, 0, len(selected))
	for _, it := range selected {
		if it.ProductID <= 0 || it.Amount <= 0 || it.Amount > MaxLineAmount {
			return nil, fmt.Errorf("%w: bad item %d x %d", ErrInvalid, it.ProductID, it.Amount)
		}
		if _, seen := amounts[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		amounts[it.ProductID] += it.Amount
		if amounts[it.ProductID] > MaxLineAmount {
			return nil, fmt.Errorf("%w: product %d exceeds %d units", ErrInvalid, it.ProductID, MaxLineAmount)
		}
	}

	products, err := s.Catalog.ListByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]cart.LineItem, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: product %d not found", ErrInvalid, id)
		}
		if amounts[id] > p.CountInStock {
			return nil, fmt.Errorf("%w: only %d of product %d in stock", ErrInvalid, p.CountInStock, id)
		}
		out = append(out, cart.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Discount:  p.Discount,
			Amount:    amounts[id],
			Image:     p.Image,
			Slug:      p.Slug,
		})
	}
	return out, nil
}

func (s *Service) fullName(userID int, addr address.Address) string {
	if addr.AddressName != "" {
		return addr.AddressName
	}
	if s.Users == nil {
		return ""
	}
	u, err := s.Users.GetByID(userID)
	if err != nil {
		return ""
	}
	return u.FullName()
}
