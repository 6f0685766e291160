package service

import (
	"context"
	"testing"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/model"
	"shop-checkout-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) CartService {
	t.Helper()

	db := newTestDB(t)
	seedProducts(t, db,
		model.Product{ID: "product_x", Name: "Product X", Price: 1000, Currency: "USD"},
		model.Product{ID: "product_y", Name: "Product Y", Price: 500, Currency: "USD"},
	)

	return NewCartService(db, repository.NewCartRepository(db), repository.NewProductRepository(db))
}

func TestAddItem_NewAndIncrement(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, "user-1", "product_x", 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.Items[0].Quantity)

	view, err = svc.AddItem(ctx, "user-1", "product_x", 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(3), view.Items[0].Quantity)
}

func TestAddItem_InvalidProduct(t *testing.T) {
	svc := newCartService(t)

	_, err := svc.AddItem(context.Background(), "user-1", "no_such_product", 1)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidProduct))
}

func TestAddItem_NonPositiveQuantity(t *testing.T) {
	svc := newCartService(t)

	_, err := svc.AddItem(context.Background(), "user-1", "product_x", 0)
	assert.True(t, apperr.Is(err, apperr.ErrMalformedRequest))
}

func TestRemoveItem_DecrementAndDelete(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "product_x", 3)
	require.NoError(t, err)

	view, err := svc.RemoveItem(ctx, "user-1", "product_x", 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(2), view.Items[0].Quantity)

	// decrement past zero deletes the item
	view, err = svc.RemoveItem(ctx, "user-1", "product_x", 5)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestRemoveItem_AllWhenQuantityOmitted(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "product_x", 3)
	require.NoError(t, err)

	view, err := svc.RemoveItem(ctx, "user-1", "product_x", 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestRemoveItem_NotFound(t *testing.T) {
	svc := newCartService(t)

	_, err := svc.RemoveItem(context.Background(), "user-1", "product_x", 1)
	assert.True(t, apperr.Is(err, apperr.ErrItemNotFound))
}

func TestSnapshot_OrderedAndPerUser(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "product_x", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", "product_y", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-2", "product_y", 7)
	require.NoError(t, err)

	view, err := svc.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "product_x", view.Items[0].Product.ID)
	assert.Equal(t, "product_y", view.Items[1].Product.ID)

	other, err := svc.Snapshot(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, other.Items, 1)
	assert.Equal(t, int64(7), other.Items[0].Quantity)
}

func TestBumpVersion_StaleVersionConflicts(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	cart, err := repo.GetOrCreate(ctx, db, "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.BumpVersion(ctx, db, "user-1", cart.Version))

	// a second writer still holding the old version loses the race
	err = repo.BumpVersion(ctx, db, "user-1", cart.Version)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestMutationsBumpVersion(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	before, err := svc.Snapshot(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "user-1", "product_x", 1)
	require.NoError(t, err)

	after, err := svc.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, before.Version+1, after.Version)
}
