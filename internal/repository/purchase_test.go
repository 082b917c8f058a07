package repository

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRepository_ListIncludesDeletedProducts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	seller := testutil.CreateUser(t, db, "seller")
	buyer := testutil.CreateUser(t, db, "buyer")
	old := testutil.CreateProduct(t, db, seller.ID, "old", "3.00")
	recent := testutil.CreateProduct(t, db, seller.ID, "recent", "4.00")
	testutil.SetStatus(t, db, old.ID, "")

	now := time.Now()
	for i, p := range []*models.Product{old, recent} {
		require.NoError(t, repo.Create(ctx, &models.PreviousPurchase{
			UserID:      buyer.ID,
			ProductID:   p.ID,
			OrderID:     "ORDER-test",
			PricePaid:   p.Price,
			Quantity:    1,
			PurchasedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, db.Delete(&models.Product{}, old.ID).Error)

	purchases, err := repo.ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 2)

	assert.Equal(t, "recent", purchases[0].Product.Title)
	require.NotNil(t, purchases[1].Product)
	assert.Equal(t, "old", purchases[1].Product.Title)
	assert.Equal(t, models.StatusSold, purchases[1].Product.Status)
	assert.True(t, decimal.RequireFromString("3").Equal(purchases[1].PricePaid))
	assert.NotEmpty(t, purchases[1].Product.ImageURLs)

	other, err := repo.ListByUser(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, other)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
