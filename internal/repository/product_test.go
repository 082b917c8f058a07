package repository

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"marketplace/internal/cache"
	"marketplace/internal/models"
	"marketplace/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_MarkSoldIsConditional(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "status"=$1,"updated_at"=$2 WHERE (id = $3 AND (status = $4 OR status IS NULL OR status = ''))`)).
		WithArgs(models.StatusSold, sqlmock.AnyArg(), 7, models.StatusAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.MarkSold(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_MarkSoldOnlyOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache.SetClient(nil)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seller := testutil.CreateUser(t, db, "seller")
	product := testutil.CreateProduct(t, db, seller.ID, "lamp", "10.00")

	ok, err := repo.MarkSold(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkSold(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	legacy := testutil.CreateProduct(t, db, seller.ID, "chair", "15.00")
	testutil.SetStatus(t, db, legacy.ID, "")
	ok, err = repo.MarkSold(ctx, legacy.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProductRepository_ListFiltersAndPaginates(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache.SetClient(nil)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seller := testutil.CreateUser(t, db, "seller")
	for _, title := range []string{"Red Lamp", "Blue Lamp", "Desk", "Green lamp shade"} {
		testutil.CreateProduct(t, db, seller.ID, title, "5.00")
	}
	electronics := testutil.CreateProduct(t, db, seller.ID, "Radio", "20.00")
	require.NoError(t, db.Model(electronics).Update("category", "Electronics").Error)

	products, total, err := repo.List(ctx, ProductFilter{Search: "LAMP", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 2)
	assert.Equal(t, "Green lamp shade", products[0].Title)
	require.NotNil(t, products[0].Owner)
	assert.Equal(t, "seller", products[0].Owner.Username)
	assert.Empty(t, products[0].Owner.Email)
	assert.Len(t, products[0].ImageURLs, 1)

	_, total, err = repo.List(ctx, ProductFilter{Search: "lamp", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	products, total, err = repo.List(ctx, ProductFilter{Category: "Electronics", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Radio", products[0].Title)

	_, total, err = repo.List(ctx, ProductFilter{Search: "electro", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestProductRepository_DeleteRemovesCartLines(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache.SetClient(nil)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seller := testutil.CreateUser(t, db, "seller")
	buyer := testutil.CreateUser(t, db, "buyer")
	product := testutil.CreateProduct(t, db, seller.ID, "lamp", "10.00")
	testutil.AddToCart(t, db, buyer.ID, product.ID, 1)

	require.NoError(t, repo.Delete(ctx, product.ID))

	_, err := repo.GetByID(ctx, product.ID)
	assert.Equal(t, 404, models.StatusFor(err))

	var lines int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&lines).Error)
	assert.Zero(t, lines)

	var unscoped models.Product
	require.NoError(t, db.Unscoped().First(&unscoped, product.ID).Error)
	assert.True(t, unscoped.DeletedAt.Valid)
}

func TestProductRepository_GetByIDCached(t *testing.T) {
	db := testutil.NewTestDB(t)
	mr, _ := testutil.NewTestRedis(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seller := testutil.CreateUser(t, db, "seller")
	product := testutil.CreateProduct(t, db, seller.ID, "lamp", "12.34")

	first, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.ProductKey(product.ID)))

	second, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ImageURLs, second.ImageURLs)
	assert.True(t, decimal.RequireFromString("12.34").Equal(second.Price))
	assert.Equal(t, models.StatusAvailable, second.Status)
}

func TestProductRepository_ResetAllAvailable(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache.SetClient(nil)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seller := testutil.CreateUser(t, db, "seller")
	a := testutil.CreateProduct(t, db, seller.ID, "a-item", "1.00")
	b := testutil.CreateProduct(t, db, seller.ID, "b-item", "1.00")
	testutil.SetStatus(t, db, a.ID, models.StatusSold)
	testutil.SetStatus(t, db, b.ID, models.StatusPending)

	n, err := repo.ResetAllAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	owned, err := repo.ListByOwner(ctx, seller.ID)
	require.NoError(t, err)
	for _, p := range owned {
		assert.Equal(t, models.StatusAvailable, p.Status)
	}
}

func TestProductRepository_ConcurrentMarkSoldHasOneWinner(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache.SetClient(nil)
	repo := NewProductRepository(db)

	seller := testutil.CreateUser(t, db, "seller")
	product := testutil.CreateProduct(t, db, seller.ID, "lamp", "10.00")

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.MarkSold(context.Background(), product.ID)
			if err == nil && ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}
