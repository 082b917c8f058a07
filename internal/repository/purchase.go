package repository

import (
	"context"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

// PurchaseRepository defines persistence operations for purchase history.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.PreviousPurchase) error
	ListByUser(ctx context.Context, userID uint) ([]models.PreviousPurchase, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository returns a new PurchaseRepository implementation.
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.PreviousPurchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// ListByUser returns the user's purchases newest first. Products deleted after
// the sale are still loaded.
func (r *purchaseRepository) ListByUser(ctx context.Context, userID uint) ([]models.PreviousPurchase, error) {
	var purchases []models.PreviousPurchase
	err := r.db.WithContext(ctx).
		Preload("Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Product.Owner", func(tx *gorm.DB) *gorm.DB {
			return tx.Unscoped().Select("id", "username", "profile_pic")
		}).
		Preload("Product.Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("is_main DESC, id ASC")
		}).
		Where("user_id = ?", userID).
		Order("purchased_at DESC, id DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for i := range purchases {
		p := purchases[i].Product
		if p == nil {
			continue
		}
		if p.Status == "" {
			p.Status = models.StatusSold
		}
		p.Prepare()
	}
	return purchases, nil
}

// DeleteAll removes every purchase record.
func (r *purchaseRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PreviousPurchase{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
