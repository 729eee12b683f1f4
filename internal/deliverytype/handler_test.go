package deliverytype

import (
	"database/sql"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
)

func TestGetDeliveryTypes(t *testing.T) {
	app := fiber.New()
	svc := NewService(NewInMemoryRepository([]DeliveryType{{ID: 1, Name: "Giao hàng nhanh", Price: 50000}}))
	NewHandler(svc).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/delivery-types", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"price":50000`) {
		t.Fatalf("unexpected body %s", string(b))
	}
}

func TestService_GetByID(t *testing.T) {
	svc := NewService(NewInMemoryRepository([]DeliveryType{{ID: 2, Name: "Tiêu chuẩn", Price: 30000}}))

	if d, err := svc.GetByID(2); err != nil || d.Price != 30000 {
		t.Fatalf("unexpected %+v %v", d, err)
	}
	if _, err := svc.GetByID(0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}
	if _, err := svc.GetByID(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM delivery_type WHERE").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"delivery_id", "name", "price"}).AddRow(1, "Nhanh", int64(50000)))
	mock.ExpectQuery("FROM delivery_type WHERE").WithArgs(9).WillReturnError(sql.ErrNoRows)

	if d, err := repo.GetByID(1); err != nil || d.Name != "Nhanh" {
		t.Fatalf("unexpected %+v %v", d, err)
	}
	if _, err := repo.GetByID(9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
