package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PostgresStore keeps each cart as a jsonb array in the carts table.
type PostgresStore struct {
	db *sql.DB
}

const (
	loadCartQuery = `SELECT items FROM carts WHERE user_id = $1`
	saveCartQuery = `
		INSERT INTO carts (user_id, items, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE
		SET items = EXCLUDED.items, updated_at = now()
	`
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, userID int) ([]LineItem, error) {
	var raw []byte
	if err := s.db.QueryRowContext(ctx, loadCartQuery, userID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []LineItem{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	items := make([]LineItem, 0)
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID int, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, saveCartQuery, userID, string(raw)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
