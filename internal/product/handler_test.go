package product

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func seedProducts() []Product {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Product{
		{ID: 1, Name: "Tai nghe Bluetooth", Slug: "tai-nghe-bluetooth", Price: 500000, Discount: 10, CountInStock: 3, CreatedAt: base},
		{ID: 2, Name: "Ốp lưng iPhone", Slug: "op-lung-iphone", Price: 150000, CountInStock: 0, Type: &TypeRef{ID: 3, Name: "Phụ kiện"}, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Name: "iPhone 15", Slug: "iphone-15", Price: 20000000, Discount: 5, CountInStock: 7, Type: &TypeRef{ID: 1, Name: "Điện thoại"}, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func makeProductApp() *fiber.App {
	app := fiber.New()
	h := NewHandler(NewService(NewInMemoryRepository(seedProducts())))
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)
	return app
}

type listResponse struct {
	Data Page `json:"data"`
}

func TestListPublic_DefaultNewestFirst(t *testing.T) {
	app := makeProductApp()

	res, err := app.Test(httptest.NewRequest("GET", "/api/products/public?limit=20&page=1&order=created%20desc", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.TotalCount != 3 || len(body.Data.Products) != 3 {
		t.Fatalf("expected 3 products, got %+v", body.Data)
	}
	if body.Data.Products[0].ID != 3 {
		t.Fatalf("expected newest product first, got %d", body.Data.Products[0].ID)
	}
}

func TestListPublic_SearchAndPaging(t *testing.T) {
	app := makeProductApp()

	res, _ := app.Test(httptest.NewRequest("GET", "/api/products/public?search=IPHONE&limit=1&page=2&order=price%20asc", nil))
	var body listResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.TotalCount != 2 {
		t.Fatalf("expected 2 matches, got %d", body.Data.TotalCount)
	}
	if len(body.Data.Products) != 1 || body.Data.Products[0].ID != 3 {
		t.Fatalf("expected second page to hold the pricier iPhone, got %+v", body.Data.Products)
	}
}

func TestGetProduct(t *testing.T) {
	app := makeProductApp()

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/product/2", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/api/v1/product/99", nil))
	if res2.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res2.StatusCode)
	}

	res3, _ := app.Test(httptest.NewRequest("GET", "/api/v1/product/slug/iphone-15", nil))
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for slug lookup, got %d", res3.StatusCode)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	app := makeProductApp()

	req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"name":"","price":-1,"discount":120}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	json.NewDecoder(res.Body).Decode(&body)
	for _, field := range []string{"name", "price", "discount"} {
		if _, ok := body.Errors[field]; !ok {
			t.Fatalf("expected validation error for %s, got %v", field, body.Errors)
		}
	}

	req2 := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"name":"Sạc nhanh 20W","price":290000}`))
	req2.Header.Set("Content-Type", "application/json")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res2.StatusCode)
	}
	var created struct {
		Data Product `json:"data"`
	}
	json.NewDecoder(res2.Body).Decode(&created)
	if created.Data.Slug != "sạc-nhanh-20w" {
		t.Fatalf("expected generated slug, got %q", created.Data.Slug)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"iPhone 15 Pro":   "iphone-15-pro",
		"  Cáp -- USB-C ": "cáp-usb-c",
		"":                "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseOrder(t *testing.T) {
	if k := parseOrder("created desc"); k.field != "created" || !k.desc {
		t.Fatalf("unexpected key %+v", k)
	}
	if k := parseOrder("price"); k.field != "price" || k.desc {
		t.Fatalf("unexpected key %+v", k)
	}
	if k := parseOrder("price; DROP TABLE product"); k.field != "created" || !k.desc {
		t.Fatalf("expected fallback for unknown field, got %+v", k)
	}
}
