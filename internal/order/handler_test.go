package order

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/storefront-backend/internal/cart"
)

func makeAppWithOrderHandler(h *Handler) *fiber.App {
	app := fiber.New()
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
	h.RegisterProtectedRoutes(app)
	return app
}

func sampleOrder(userID int) Order {
	return Order{
		UserID:        userID,
		Items:         []cart.LineItem{{ProductID: 1, Name: "Phone", Price: 100000, Discount: 20, Amount: 2}},
		ItemsPrice:    160000,
		ShippingPrice: 30000,
		TotalPrice:    190000,
		DeliveryID:    1,
		PaymentID:     1,
	}
}

func TestOrderRoutes(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	first, err := svc.Create(sampleOrder(8))
	require.NoError(t, err)
	second, err := svc.Create(sampleOrder(8))
	require.NoError(t, err)
	other, err := svc.Create(sampleOrder(9))
	require.NoError(t, err)

	app := makeAppWithOrderHandler(NewHandler(svc))

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/orders", nil))
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	req.Header.Set("X-User-ID", "8")
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var orders []Order
	require.NoError(t, json.NewDecoder(res.Body).Decode(&orders))
	require.Len(t, orders, 2)
	assert.Equal(t, second.OrderID, orders[0].OrderID)
	assert.Equal(t, first.OrderID, orders[1].OrderID)
	assert.Equal(t, StatusPending, orders[0].Status)

	// another user's order is invisible
	req = httptest.NewRequest("GET", "/api/v1/orders/"+strconv.Itoa(other.OrderID), nil)
	req.Header.Set("X-User-ID", "8")
	res, _ = app.Test(req)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/orders/"+strconv.Itoa(first.OrderID), nil)
	req.Header.Set("X-User-ID", "8")
	res, _ = app.Test(req)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestServiceCreate_Validation(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	_, err := svc.Create(Order{UserID: 1})
	assert.ErrorIs(t, err, ErrInvalid)

	bad := sampleOrder(1)
	bad.TotalPrice = -1
	_, err = svc.Create(bad)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	ord, err := svc.Create(sampleOrder(1))
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ord.OrderID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	svc.now = func() time.Time { return fixed.Add(time.Hour) }
	again, err := svc.MarkPaid(ord.OrderID)
	require.NoError(t, err)
	assert.Equal(t, fixed, *again.PaidAt)

	_, err = svc.MarkPaid(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

var orderCols = []string{"order_id", "user_id", "items", "items_price", "discount", "shipping_price", "total_price",
	"delivery_id", "payment_id", "full_name", "address", "phone", "status", "is_paid", "paid_at", "created_at", "updated_at"}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	items := `[{"productId":1,"name":"Phone","price":100000,"discount":20,"amount":2}]`
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(7, items, int64(160000), int64(0), int64(30000), int64(190000), 1, 1, "An", "1 Lê Lợi", "0901", StatusPending).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(11, 7, []byte(items), 160000, 0, 30000, 190000, 1, 1,
			"An", "1 Lê Lợi", "0901", StatusPending, false, nil, now, now))

	ord := sampleOrder(7)
	ord.FullName, ord.Address, ord.Phone = "An", "1 Lê Lợi", "0901"
	created, err := repo.Create(ord)
	require.NoError(t, err)
	assert.Equal(t, 11, created.OrderID)
	assert.Equal(t, ord.Items, created.Items)
	assert.Nil(t, created.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMarkPaid_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("UPDATE orders").WillReturnRows(sqlmock.NewRows(orderCols))

	_, err = NewPostgresRepository(db).MarkPaid(5, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
