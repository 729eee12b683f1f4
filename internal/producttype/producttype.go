package producttype

// ProductType is the public DTO returned by the product type API.
type ProductType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
