package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	ProductKeyPrefix      = "product:%d"
	ProductsListKeyPrefix = "products:list:"
)

const (
	UserTTL         = 5 * time.Minute
	ProductTTL      = 10 * time.Minute
	ProductsListTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProductKey(productID uint) string {
	return fmt.Sprintf(ProductKeyPrefix, productID)
}

// ProductsListKey identifies one cached page of the unfiltered catalog.
func ProductsListKey(page, limit int) string {
	return fmt.Sprintf("%sp%d:l%d", ProductsListKeyPrefix, page, limit)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateProducts drops the given product entries and every cached catalog page.
func InvalidateProducts(ctx context.Context, productIDs ...uint) {
	if client == nil {
		return
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, ProductKey(id))
	}

	iter := client.Scan(ctx, 0, ProductsListKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	Invalidate(ctx, keys...)
}
