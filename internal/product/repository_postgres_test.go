package product

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var productRowColumns = []string{
	"product_id", "name", "slug", "type_id", "type_name", "price", "discount",
	"count_in_stock", "sold", "average_rating", "description", "image", "created_at", "updated_at",
}

func TestList_SearchAndOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT").WithArgs("iphone", 0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	rows := sqlmock.NewRows(productRowColumns).
		AddRow(2, "iPhone 15", "iphone-15", 1, "Điện thoại", int64(20000000), 10, 5, 12, 4.5, "d", "img", now, now).
		AddRow(1, "iPhone 14", "iphone-14", nil, "", int64(15000000), 0, 0, 30, 0.0, "d", "img", now, now)
	mock.ExpectQuery("ORDER BY p.created_at DESC").WithArgs("iphone", 0, 20, 0).WillReturnRows(rows)

	products, total, err := repo.List(ListQuery{Search: " iphone ", Order: "created desc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("expected 2 products, got total=%d len=%d", total, len(products))
	}
	if products[0].Type == nil || products[0].Type.Name != "Điện thoại" {
		t.Fatalf("expected product type on first row, got %+v", products[0].Type)
	}
	if products[1].Type != nil {
		t.Fatalf("expected untyped second row, got %+v", products[1].Type)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestList_EmptySkipsSelect(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	products, total, err := repo.List(ListQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(products) != 0 {
		t.Fatalf("expected empty page, got %d/%d", len(products), total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("WHERE p.product_id = ").WithArgs(9).WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListByIDs_UsesArray(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(productRowColumns).
		AddRow(3, "Cable", "cable", nil, "", int64(50000), 0, 10, 1, 0.0, "", "", now, now)
	mock.ExpectQuery("ANY").WithArgs(sqlmock.AnyArg()).WillReturnRows(rows)

	products, err := repo.ListByIDs([]int{3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Slug != "cable" {
		t.Fatalf("unexpected products %+v", products)
	}

	empty, err := repo.ListByIDs(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result without query, got %v %v", empty, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_NoRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE product").WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.Update(5, Product{Name: "x", Slug: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
