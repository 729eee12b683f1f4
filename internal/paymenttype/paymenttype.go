package paymenttype

// Type tags decide what happens after an order is created.
const (
	TagPaymentLater = "PAYMENT_LATER"
	TagVNPay        = "VN_PAYMENT"
)

// PaymentType is a payment option offered at checkout.
type PaymentType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// RequiresRedirect reports whether the option is paid on a hosted gateway page.
func (p PaymentType) RequiresRedirect() bool {
	return p.Type == TagVNPay
}
