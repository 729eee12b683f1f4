package address

import (
	"database/sql"
	"errors"
)

// PostgresRepository stores addresses in the `address` table with a foreign
// key to users. At most one row per user has is_default set.
type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `address_id, user_id, address_desc, phone, address_name, is_default, COALESCE(created_at, ''), COALESCE(updated_at, '')`

	listAddressesQuery = `SELECT ` + addressColumns + ` FROM address WHERE user_id = $1 ORDER BY address_id`
	insertAddressQuery = `
		INSERT INTO address (user_id, address_desc, phone, address_name, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$5)
		RETURNING ` + addressColumns
	updateAddressQuery = `
		UPDATE address
		SET address_desc=$3, phone=$4, address_name=$5, updated_at=$6
		WHERE user_id=$1 AND address_id=$2
		RETURNING ` + addressColumns
	deleteAddressQuery = `DELETE FROM address WHERE user_id=$1 AND address_id=$2`
	setDefaultQuery    = `
		UPDATE address
		SET is_default = (address_id = $2)
		WHERE user_id = $1
		  AND EXISTS (SELECT 1 FROM address WHERE user_id = $1 AND address_id = $2)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAddresses(userID int) ([]Address, error) {
	rows, err := r.db.Query(listAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		var a Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddAddress(userID int, a Address, now string) (Address, error) {
	var out Address
	if err := scanAddress(r.db.QueryRow(insertAddressQuery, userID, a.AddressDesc, a.Phone, a.AddressName, now), &out); err != nil {
		return Address{}, err
	}
	return out, nil
}

func (r *PostgresRepository) UpdateAddress(userID, addressID int, a Address, now string) (Address, error) {
	var out Address
	if err := scanAddress(r.db.QueryRow(updateAddressQuery, userID, addressID, a.AddressDesc, a.Phone, a.AddressName, now), &out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Address{}, ErrNotFound
		}
		return Address{}, err
	}
	return out, nil
}

func (r *PostgresRepository) DeleteAddress(userID, addressID int) error {
	res, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return err
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetDefault(userID, addressID int) error {
	res, err := r.db.Exec(setDefaultQuery, userID, addressID)
	if err != nil {
		return err
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(s rowScanner, a *Address) error {
	return s.Scan(&a.AddressID, &a.UserID, &a.AddressDesc, &a.Phone, &a.AddressName, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
}
