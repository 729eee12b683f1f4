package product

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `
		p.product_id, p.name, p.slug, p.type_id, COALESCE(t.name, ''), p.price, p.discount,
		p.count_in_stock, p.sold, COALESCE(p.average_rating, 0), p.description, p.image,
		p.created_at, p.updated_at
	`
	productFrom = `
		FROM product p
		LEFT JOIN product_type t ON t.type_id = p.type_id
	`
	productFilter = `
		WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%')
		  AND ($2 = 0 OR p.type_id = $2)
	`
	countProductsQuery  = `SELECT COUNT(*) ` + productFrom + productFilter
	getProductByIDQuery = `SELECT ` + productColumns + productFrom + ` WHERE p.product_id = $1`
	getProductBySlug    = `SELECT ` + productColumns + productFrom + ` WHERE p.slug = $1`
	listProductsByIDs   = `SELECT ` + productColumns + productFrom + ` WHERE p.product_id = ANY($1::int[]) ORDER BY array_position($1::int[], p.product_id)`

	insertProductQuery = `
		INSERT INTO product (name, slug, type_id, price, discount, count_in_stock, sold, average_rating, description, image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING product_id, created_at, updated_at
	`
	updateProductQuery = `
		UPDATE product
		SET name = $1,
			slug = $2,
			type_id = $3,
			price = $4,
			discount = $5,
			count_in_stock = $6,
			description = $7,
			image = $8,
			updated_at = now()
		WHERE product_id = $9
	`
	deleteProductQuery = `DELETE FROM product WHERE product_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(q ListQuery) ([]Product, int, error) {
	q = q.normalize()

	var total int
	if err := r.db.QueryRow(countProductsQuery, q.Search, q.TypeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if total == 0 {
		return []Product{}, 0, nil
	}

	key := parseOrder(q.Order)
	dir := "ASC"
	if key.desc {
		dir = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY %s %s, p.product_id %s LIMIT $3 OFFSET $4`,
		productColumns, productFrom, productFilter, sortColumns[key.field], dir, dir)

	rows, err := r.db.Query(query, q.Search, q.TypeID, q.Limit, q.offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	return r.getOne(getProductByIDQuery, id)
}

func (r *PostgresRepository) GetBySlug(slug string) (Product, error) {
	return r.getOne(getProductBySlug, slug)
}

func (r *PostgresRepository) getOne(query string, arg any) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// ListByIDs returns the products in the order of ids. Missing ids are skipped.
func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.Query(listProductsByIDs, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(
		insertProductQuery,
		p.Name,
		p.Slug,
		typeIDArg(p.Type),
		p.Price,
		p.Discount,
		p.CountInStock,
		p.Sold,
		p.AverageRating,
		p.Description,
		p.Image,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	result, err := r.db.Exec(
		updateProductQuery,
		p.Name,
		p.Slug,
		typeIDArg(p.Type),
		p.Price,
		p.Discount,
		p.CountInStock,
		p.Description,
		p.Image,
		id,
	)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func typeIDArg(t *TypeRef) any {
	if t == nil || t.ID <= 0 {
		return nil
	}
	return t.ID
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p        Product
		typeID   sql.NullInt64
		typeName string
	)
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&typeID,
		&typeName,
		&p.Price,
		&p.Discount,
		&p.CountInStock,
		&p.Sold,
		&p.AverageRating,
		&p.Description,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Product{}, err
	}
	if typeID.Valid {
		p.Type = &TypeRef{ID: int(typeID.Int64), Name: typeName}
	}
	return p, nil
}
