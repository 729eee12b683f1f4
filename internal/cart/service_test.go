package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Subtract(t *testing.T) {
	store := NewInMemoryStore(map[int][]LineItem{1: {
		{ProductID: 1, Name: "Phone", Price: 100000, Amount: 2},
		{ProductID: 2, Name: "Case", Price: 50000, Amount: 1},
		{ProductID: 3, Name: "Charger", Price: 200000, Amount: 1},
	}})
	svc := NewService(store, nil)

	got, err := svc.Subtract(context.Background(), 1, []LineItem{
		{ProductID: 1, Amount: 1},
		{ProductID: 2, Amount: 1},
		{ProductID: 99, Amount: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []LineItem{
		{ProductID: 1, Name: "Phone", Price: 100000, Amount: 1},
		{ProductID: 3, Name: "Charger", Price: 200000, Amount: 1},
	}, got)
}

func TestService_RejectsInvalidInput(t *testing.T) {
	svc := NewService(NewInMemoryStore(nil), nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = svc.Apply(ctx, 1, Change{Item: LineItem{ProductID: 0}, Delta: 1})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	assert.ErrorIs(t, svc.Clear(ctx, -1), ErrInvalidUser)
}

func TestService_ZeroDeltaIsNoop(t *testing.T) {
	seed := map[int][]LineItem{1: {{ProductID: 1, Name: "Phone", Price: 100000, Amount: 2}}}
	svc := NewService(NewInMemoryStore(seed), nil)

	got, err := svc.Apply(context.Background(), 1, Change{Item: LineItem{ProductID: 5}, Delta: 0})
	require.NoError(t, err)
	assert.Equal(t, seed[1], got)
}
