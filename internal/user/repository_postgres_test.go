package user

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresGetByEmail_LowerCases(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	cols := []string{"user_id", "email", "password", "first_name", "last_name", "phone", "gender", "created_at", "updated_at"}
	mock.ExpectQuery("FROM users WHERE lower\\(email\\)").WithArgs("an@example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(3, "An@Example.com", "hash", "An", "Nguyen", "0901", "male", "", ""))

	u, err := repo.GetByEmail("AN@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 3 || u.FirstName != "An" {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE user_id").WithArgs(42).WillReturnError(sql.ErrNoRows)

	if _, err := NewPostgresRepository(db).GetByID(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresUpdatePassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE users SET password").WithArgs("hash", "2025-03-01T00:00:00Z", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET password").WithArgs("hash", "2025-03-01T00:00:00Z", 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdatePassword(3, "hash", "2025-03-01T00:00:00Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.UpdatePassword(42, "hash", "2025-03-01T00:00:00Z"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
