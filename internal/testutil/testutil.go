// Package testutil provides in-memory database and Redis fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"marketplace/internal/cache"
	"marketplace/internal/database"
	"marketplace/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewTestDB opens a private in-memory SQLite database with the full schema.
// A single connection is used, so code running inside a transaction must only use tx.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:marketplace_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// NewTestRedis starts miniredis and installs it as the cache client.
func NewTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil); _ = rdb.Close() })
	return mr, rdb
}

// CreateUser inserts a user with a unique email.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Address:  "1 Market Street, Springfield",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProduct inserts an available listing with one main image.
func CreateProduct(t *testing.T, db *gorm.DB, ownerID uint, title, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		Title:       title,
		Description: "A perfectly fine item for sale",
		Category:    "Other",
		Price:       decimal.RequireFromString(price),
		Status:      models.StatusAvailable,
		OwnerID:     ownerID,
		Images:      []models.ProductImage{{ImageURL: "https://cdn.example.com/" + title + ".jpg", IsMain: true}},
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// SetStatus forces a product's status, bypassing the checkout path.
func SetStatus(t *testing.T, db *gorm.DB, productID uint, status models.ProductStatus) {
	t.Helper()
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", productID).Update("status", status).Error)
}

// AddToCart creates (or reuses) the user's cart and adds one line.
func AddToCart(t *testing.T, db *gorm.DB, userID, productID uint, quantity int) *models.CartItem {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error)
	item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
	require.NoError(t, db.Create(item).Error)
	return item
}
