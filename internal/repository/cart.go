package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository defines persistence operations for carts and their line items.
type CartRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Cart, error)
	FindByUserID(ctx context.Context, userID uint) (*models.Cart, error)
	ListItems(ctx context.Context, cartID uint) ([]models.CartItem, error)
	AddItem(ctx context.Context, cartID, productID uint, quantity int) (*models.CartItem, bool, error)
	GetItem(ctx context.Context, itemID uint) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, itemID uint) error
	ClearItems(ctx context.Context, cartID uint) (int64, error)
	ClearAll(ctx context.Context) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository returns a new CartRepository implementation.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreate reads first and only inserts on a miss. The unique user_id index
// makes concurrent first adds converge on a single cart.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Cart, error) {
	if cart, err := r.FindByUserID(ctx, userID); err != nil || cart != nil {
		return cart, err
	}

	db := r.db.WithContext(ctx)
	insert := models.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&insert).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &cart, nil
}

// FindByUserID returns nil, nil when the user has no cart yet.
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &cart, nil
}

// ListItems returns the cart's lines newest first with product, owner and images loaded.
func (r *cartRepository) ListItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := withListingDetails(r.db.WithContext(ctx).Preload("Product"), "Product.").
		Where("cart_id = ?", cartID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range items {
		if items[i].Product != nil {
			items[i].Product.Prepare()
		}
	}
	return items, nil
}

// AddItem inserts a line or increments the existing one in a single upsert.
// The bool result is true when a new line was created. An increment that would
// take the line past MaxCartQuantity changes nothing and fails validation.
func (r *cartRepository) AddItem(ctx context.Context, cartID, productID uint, quantity int) (*models.CartItem, bool, error) {
	db := r.db.WithContext(ctx)

	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	res := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("cart_items.quantity + excluded.quantity <= ?", validation.MaxCartQuantity),
		}},
	}).Create(&item)
	if res.Error != nil {
		return nil, false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, models.NewValidationError(
			fmt.Sprintf("Cart quantity cannot exceed %d", validation.MaxCartQuantity))
	}

	var stored models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&stored).Error; err != nil {
		return nil, false, models.NewInternalError(err)
	}
	created := stored.CreatedAt.Equal(stored.UpdatedAt)
	return &stored, created, nil
}

// GetItem loads a line with its cart (for ownership checks) and product.
func (r *cartRepository) GetItem(ctx context.Context, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Cart").
		Preload("Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		First(&item, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Cart item", itemID)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Cart item", itemID)
	}
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, itemID)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Cart item", itemID)
	}
	return nil
}

// ClearItems removes every line of the cart and returns how many were removed.
func (r *cartRepository) ClearItems(ctx context.Context, cartID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// ClearAll empties every cart in the store.
func (r *cartRepository) ClearAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
