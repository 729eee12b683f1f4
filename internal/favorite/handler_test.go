package favorite

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/storefront-backend/internal/product"
)

func makeAppWithFavoriteHandler(fHandler *Handler, products *product.Service) *fiber.App {
	app := fiber.New()
	product.NewHandler(products).RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	fHandler.RegisterProtectedRoutes(app)
	return app
}

func newFavoriteApp() *fiber.App {
	repo := NewInMemoryRepository()
	products := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Tai nghe", Slug: "tai-nghe", Price: 500000},
		{ID: 2, Name: "Ốp lưng", Slug: "op-lung", Price: 150000},
	})).WithLikes(repo)
	return makeAppWithFavoriteHandler(NewHandler(NewService(repo, products)), products)
}

type toggleResponse struct {
	ProductID int   `json:"productId"`
	LikedBy   []int `json:"likedBy"`
}

func sendFavorite(t *testing.T, app *fiber.App, method, userID string, productID int) (int, toggleResponse) {
	t.Helper()
	req := httptest.NewRequest(method, "/api/v1/favorites", strings.NewReader(`{"productId":`+strconv.Itoa(productID)+`}`))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("favorite request failed: %v", err)
	}
	var body toggleResponse
	if res.StatusCode == fiber.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return res.StatusCode, body
}

func TestFavoriteRoutes_LikeUnlike(t *testing.T) {
	app := newFavoriteApp()

	if code, _ := sendFavorite(t, app, "POST", "", 1); code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}

	code, body := sendFavorite(t, app, "POST", "7", 1)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.ProductID != 1 || len(body.LikedBy) != 1 || body.LikedBy[0] != 7 {
		t.Fatalf("unexpected like response %+v", body)
	}

	_, body = sendFavorite(t, app, "POST", "8", 1)
	if len(body.LikedBy) != 2 || body.LikedBy[1] != 8 {
		t.Fatalf("expected likers [7 8], got %v", body.LikedBy)
	}

	if code, _ := sendFavorite(t, app, "POST", "7", 1); code != fiber.StatusConflict {
		t.Fatalf("expected 409 for a repeated like, got %d", code)
	}
	if code, _ := sendFavorite(t, app, "POST", "7", 99); code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", code)
	}
	if code, _ := sendFavorite(t, app, "POST", "7", 0); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for invalid productId, got %d", code)
	}

	code, body = sendFavorite(t, app, "DELETE", "7", 1)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for unlike, got %d", code)
	}
	if len(body.LikedBy) != 1 || body.LikedBy[0] != 8 {
		t.Fatalf("expected likers [8], got %v", body.LikedBy)
	}
	if code, _ := sendFavorite(t, app, "DELETE", "7", 1); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 when unliking twice, got %d", code)
	}
}

func TestFavoriteRoutes_LikedListAndProductCount(t *testing.T) {
	app := newFavoriteApp()
	sendFavorite(t, app, "POST", "7", 1)
	sendFavorite(t, app, "POST", "7", 2)
	sendFavorite(t, app, "POST", "9", 2)

	req := httptest.NewRequest("GET", "/api/v1/favorites", nil)
	req.Header.Set("X-User-ID", "7")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var list struct {
		Data product.Page `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Data.TotalCount != 2 || list.Data.Products[0].ID != 2 || list.Data.Products[1].ID != 1 {
		t.Fatalf("expected most recent like first, got %+v", list.Data)
	}
	if got := list.Data.Products[0].LikedBy; len(got) != 2 {
		t.Fatalf("expected two likers on product 2, got %v", got)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/api/v1/product/slug/op-lung", nil))
	var one struct {
		Data product.Product `json:"data"`
	}
	json.NewDecoder(res2.Body).Decode(&one)
	if len(one.Data.LikedBy) != 2 || one.Data.LikedBy[0] != 7 || one.Data.LikedBy[1] != 9 {
		t.Fatalf("expected public product to carry likedBy [7 9], got %v", one.Data.LikedBy)
	}

	res3, _ := app.Test(httptest.NewRequest("GET", "/api/products/public", nil))
	var page struct {
		Data product.Page `json:"data"`
	}
	json.NewDecoder(res3.Body).Decode(&page)
	for _, p := range page.Data.Products {
		if p.ID == 1 && len(p.LikedBy) != 1 {
			t.Fatalf("expected one liker on product 1, got %v", p.LikedBy)
		}
	}
}

func TestFavoriteRoutes_EmptyList(t *testing.T) {
	app := newFavoriteApp()

	req := httptest.NewRequest("GET", "/api/v1/favorites", nil)
	req.Header.Set("X-User-ID", "3")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var list struct {
		Data product.Page `json:"data"`
	}
	json.NewDecoder(res.Body).Decode(&list)
	if list.Data.TotalCount != 0 || list.Data.Products == nil {
		t.Fatalf("expected an empty list, got %+v", list.Data)
	}
}
