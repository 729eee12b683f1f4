package product

import (
	"strings"
	"time"
	"unicode"
)

// Product maps to the `product` table joined with its product type.
// JSON tags follow the camelCase convention used by the storefront client.
type Product struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Type          *TypeRef  `json:"type,omitempty"`
	Price         int64     `json:"price"`
	Discount      int       `json:"discount"`
	CountInStock  int       `json:"countInStock"`
	Sold          int       `json:"sold"`
	AverageRating float64   `json:"averageRating"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	LikedBy       []int     `json:"likedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TypeRef is the product type embedded in product responses.
type TypeRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TypeName returns the product type name, or "" when untyped.
func (p Product) TypeName() string {
	if p.Type == nil {
		return ""
	}
	return p.Type.Name
}

// ListQuery drives the public product listing.
type ListQuery struct {
	Limit  int
	Page   int
	Order  string // "<field> <asc|desc>", e.g. "created desc"
	Search string
	TypeID int
}

// Page is one page of products plus the total number of matches.
type Page struct {
	Products   []Product `json:"products"`
	TotalCount int       `json:"totalCount"`
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

func (q ListQuery) normalize() ListQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ListQuery) offset() int {
	return (q.Page - 1) * q.Limit
}

// sortKey is a whitelisted sort field.
type sortKey struct {
	field string
	desc  bool
}

var sortColumns = map[string]string{
	"created": "p.created_at",
	"price":   "p.price",
	"sold":    "p.sold",
	"name":    "p.name",
	"rating":  "p.average_rating",
}

// parseOrder accepts "<field> [asc|desc]". Unknown fields fall back to newest first.
func parseOrder(order string) sortKey {
	parts := strings.Fields(strings.ToLower(order))
	if len(parts) == 0 {
		return sortKey{field: "created", desc: true}
	}
	if _, ok := sortColumns[parts[0]]; !ok {
		return sortKey{field: "created", desc: true}
	}
	k := sortKey{field: parts[0]}
	if len(parts) > 1 && parts[1] == "desc" {
		k.desc = true
	}
	return k
}

// Slugify builds a URL slug from a product name.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
