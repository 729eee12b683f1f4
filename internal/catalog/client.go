package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker/v2"
	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/producttype"
)

var ErrStatus = errors.New("catalog returned non-200 status")

// Client reads the public catalog API over HTTP. Each endpoint has its own
// circuit breaker so a failing catalog stops costing callers a timeout.
type Client struct {
	baseURL  string
	timeout  time.Duration
	products *gobreaker.CircuitBreaker[product.Page]
	types    *gobreaker.CircuitBreaker[[]producttype.ProductType]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
		products: gobreaker.NewCircuitBreaker[product.Page](breakerSettings("catalog-products")),
		types:    gobreaker.NewCircuitBreaker[[]producttype.ProductType](breakerSettings("catalog-product-types")),
	}
}

func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	}
}

type productsResponse struct {
	Data product.Page `json:"data"`
}

type productTypesResponse struct {
	Data struct {
		ProductTypes []producttype.ProductType `json:"productTypes"`
	} `json:"data"`
}

// SearchProducts calls GET /api/products/public.
func (c *Client) SearchProducts(ctx context.Context, q product.ListQuery) (product.Page, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("page", strconv.Itoa(q.Page))
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	return c.products.Execute(func() (product.Page, error) {
		var out productsResponse
		if err := c.get(ctx, "/api/products/public", params, &out); err != nil {
			return product.Page{}, err
		}
		return out.Data, nil
	})
}

// ListProductTypes calls GET /api/product-types.
func (c *Client) ListProductTypes(ctx context.Context) ([]producttype.ProductType, error) {
	return c.types.Execute(func() ([]producttype.ProductType, error) {
		var out productTypesResponse
		if err := c.get(ctx, "/api/product-types", nil, &out); err != nil {
			return nil, err
		}
		return out.Data.ProductTypes, nil
	})
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	a := fiber.Get(c.baseURL + path)
	if len(params) > 0 {
		a.QueryString(params.Encode())
	}
	a.Timeout(timeout)

	code, _, errs := a.Struct(v)
	if code != 0 && code != fiber.StatusOK {
		return fmt.Errorf("%w: GET %s: %d", ErrStatus, path, code)
	}
	if len(errs) > 0 {
		return fmt.Errorf("GET %s: %w", path, errors.Join(errs...))
	}
	return nil
}
