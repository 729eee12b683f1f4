package deliverytype

// DeliveryType is a shipping option offered at checkout.
type DeliveryType struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
