package cart

import "math"

// LineItem is one product in a user's cart. Name, price, discount, image and
// slug are a snapshot taken when the product was first added.
type LineItem struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Discount  int    `json:"discount"`
	Amount    int    `json:"amount"`
	Image     string `json:"image,omitempty"`
	Slug      string `json:"slug,omitempty"`
}

// Change is a signed quantity delta for one product. Item carries the
// metadata used when the product is not in the cart yet.
type Change struct {
	Item  LineItem
	Delta int
}

// Reconcile merges a change into items and returns the new list.
// An existing item is adjusted by Delta and dropped once it reaches zero.
// An absent item is appended only for a positive Delta; otherwise the
// change is ignored. items is never modified.
func Reconcile(items []LineItem, ch Change) []LineItem {
	out := make([]LineItem, 0, len(items)+1)
	found := false
	for _, it := range items {
		if it.ProductID != ch.Item.ProductID {
			out = append(out, it)
			continue
		}
		found = true
		it.Amount = addAmount(it.Amount, ch.Delta)
		if it.Amount > 0 {
			out = append(out, it)
		}
	}

	if !found && ch.Delta > 0 {
		item := ch.Item
		item.Amount = ch.Delta
		out = append(out, item)
	}
	return out
}

// addAmount adds delta to a positive amount, saturating at math.MaxInt.
func addAmount(amount, delta int) int {
	if delta > 0 && amount > math.MaxInt-delta {
		return math.MaxInt
	}
	return amount + delta
}

// Count returns the total quantity across all items.
func Count(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Amount
	}
	return n
}
