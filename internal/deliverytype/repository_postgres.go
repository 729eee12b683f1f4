package deliverytype

import (
	"database/sql"
	"errors"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns delivery rows ordered by `ord` then id.
func (r *PostgresRepository) List() ([]DeliveryType, error) {
	rows, err := r.db.Query(`SELECT delivery_id, name, price FROM delivery_type ORDER BY ord DESC, delivery_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DeliveryType, 0)
	for rows.Next() {
		var d DeliveryType
		if err := rows.Scan(&d.ID, &d.Name, &d.Price); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (DeliveryType, error) {
	var d DeliveryType
	err := r.db.QueryRow(`SELECT delivery_id, name, price FROM delivery_type WHERE delivery_id = $1`, id).Scan(&d.ID, &d.Name, &d.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DeliveryType{}, ErrNotFound
		}
		return DeliveryType{}, err
	}
	return d, nil
}
