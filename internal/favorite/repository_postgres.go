package favorite

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	likeQuery   = `INSERT INTO product_like (user_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	unlikeQuery = `DELETE FROM product_like WHERE user_id = $1 AND product_id = $2`

	likedProductsQuery = `
		SELECT product_id FROM product_like
		WHERE user_id = $1
		ORDER BY created_at DESC, product_id DESC
	`
	likedByQuery = `
		SELECT product_id, array_agg(user_id ORDER BY created_at, user_id)
		FROM product_like
		WHERE product_id = ANY($1::int[])
		GROUP BY product_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Like(userID, productID int) error {
	return r.exec(likeQuery, ErrAlreadyLiked, userID, productID)
}

func (r *PostgresRepository) Unlike(userID, productID int) error {
	return r.exec(unlikeQuery, ErrNotLiked, userID, productID)
}

// exec runs a single-row write and reports none when nothing changed.
func (r *PostgresRepository) exec(query string, none error, args ...any) error {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return none
	}
	return nil
}

func (r *PostgresRepository) LikedProductIDs(userID int) ([]int, error) {
	rows, err := r.db.Query(likedProductsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) LikedBy(productIDs []int) (map[int][]int, error) {
	out := make(map[int][]int, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(likedByQuery, pq.Array(productIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID int
			users     pq.Int64Array
		)
		if err := rows.Scan(&productID, &users); err != nil {
			return nil, err
		}
		ids := make([]int, len(users))
		for i, v := range users {
			ids[i] = int(v)
		}
		out[productID] = ids
	}
	return out, rows.Err()
}
