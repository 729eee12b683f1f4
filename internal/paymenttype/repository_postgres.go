package paymenttype

import (
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]PaymentType, error) {
	rows, err := r.db.Query(`SELECT payment_id, name, type FROM payment_type ORDER BY ord DESC, payment_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PaymentType, 0)
	for rows.Next() {
		var p PaymentType
		if err := rows.Scan(&p.ID, &p.Name, &p.Type); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (PaymentType, error) {
	var p PaymentType
	err := r.db.QueryRow(`SELECT payment_id, name, type FROM payment_type WHERE payment_id = $1`, id).Scan(&p.ID, &p.Name, &p.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaymentType{}, ErrNotFound
		}
		return PaymentType{}, err
	}
	return p, nil
}
