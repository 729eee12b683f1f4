package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/storefront-backend/internal/cart"
)

// ErrOutOfRange means an amount does not fit in whole currency units.
var ErrOutOfRange = errors.New("amount out of range")

var (
	hundred  = decimal.NewFromInt(100)
	maxMoney = decimal.NewFromInt(math.MaxInt64)
)

// EffectivePrice is the unit price after a percentage discount.
func EffectivePrice(price int64, discount int) decimal.Decimal {
	p := decimal.NewFromInt(price)
	if discount <= 0 {
		return p
	}
	return p.Mul(decimal.NewFromInt(int64(100 - discount))).Div(hundred)
}

// Subtotal sums the discounted price of every line.
func Subtotal(items []cart.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(EffectivePrice(it.Price, it.Discount).Mul(decimal.NewFromInt(int64(it.Amount))))
	}
	return total
}

// Summary is the order breakdown shown before checkout. It is derived on
// every call and never stored.
type Summary struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Amounts is a Summary rounded to whole currency units.
type Amounts struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// ComputeSummary returns subtotal - discount + shipping. The discount is
// clamped to [0, subtotal].
func ComputeSummary(items []cart.LineItem, shipping, discount decimal.Decimal) Summary {
	subtotal := Subtotal(items)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	discount = decimal.Min(discount, subtotal)
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}

	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal.Sub(discount).Add(shipping),
	}
}

// Amounts rounds each part; Total is rebuilt from the rounded parts so the
// identity still holds on the wire. Parts or totals beyond int64 give
// ErrOutOfRange.
func (s Summary) Amounts() (Amounts, error) {
	parts := [...]decimal.Decimal{s.Subtotal, s.Discount, s.Shipping, s.Total}
	for _, v := range parts {
		if v.Round(0).Abs().GreaterThan(maxMoney) {
			return Amounts{}, fmt.Errorf("%w: %s", ErrOutOfRange, v.String())
		}
	}

	a := Amounts{
		Subtotal: s.Subtotal.Round(0).IntPart(),
		Discount: s.Discount.Round(0).IntPart(),
		Shipping: s.Shipping.Round(0).IntPart(),
	}
	net := a.Subtotal - a.Discount
	if a.Shipping > 0 && net > math.MaxInt64-a.Shipping {
		return Amounts{}, fmt.Errorf("%w: total", ErrOutOfRange)
	}
	a.Total = net + a.Shipping
	return a, nil
}

// PromoTable maps a lower-cased promo code to its percentage off the subtotal.
type PromoTable map[string]decimal.Decimal

// DefaultPromos is the code table used by the storefront.
var DefaultPromos = PromoTable{
	"welcome10": decimal.NewFromInt(10),
}

// Apply returns the discount for code. Unknown and empty codes give zero.
func (t PromoTable) Apply(code string, subtotal decimal.Decimal) decimal.Decimal {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return decimal.Zero
	}
	pct, ok := t[code]
	if !ok {
		return decimal.Zero
	}
	return subtotal.Mul(pct).Div(hundred)
}

// ApplyPromo looks code up in DefaultPromos.
func ApplyPromo(code string, subtotal decimal.Decimal) decimal.Decimal {
	return DefaultPromos.Apply(code, subtotal)
}
