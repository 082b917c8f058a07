package repository

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/cache"
	"marketplace/internal/models"
	"marketplace/internal/observability"

	"gorm.io/gorm"
)

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

// ProductRepository defines persistence operations for listings.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Product, error)
	Delete(ctx context.Context, id uint) error
	MarkSold(ctx context.Context, id uint) (bool, error)
	ResetAllAvailable(ctx context.Context) (int64, error)
}

type productRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewProductRepository returns a new ProductRepository implementation.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

// withListingDetails preloads the owner summary and images, main image first.
func withListingDetails(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix+"Owner", func(tx *gorm.DB) *gorm.DB {
			return tx.Unscoped().Select("id", "username", "profile_pic")
		}).
		Preload(prefix+"Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("is_main DESC, id ASC")
		})
}

func prepareAll(products []models.Product) {
	for i := range products {
		products[i].Prepare()
	}
}

// Create inserts the product and its images in one statement group.
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	defer r.metrics.TrackQuery("create", "products")()

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProducts(ctx)
	product.Prepare()
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := cache.Aside(ctx, cache.ProductKey(id), &product, cache.ProductTTL, func() error {
		defer r.metrics.TrackQuery("get", "products")()
		if err := withListingDetails(readDB(r.db).WithContext(ctx), "").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Product", id)
			}
			return models.NewInternalError(err)
		}
		product.Prepare()
		return nil
	})
	if err != nil {
		return nil, err
	}
	product.Prepare()
	return &product, nil
}

// List returns one page of matching products, newest first, and the total match count.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	defer r.metrics.TrackQuery("list", "products")()

	scope := func(db *gorm.DB) *gorm.DB {
		if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
			like := "%" + term + "%"
			db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)", like, like, like)
		}
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		return db
	}

	db := readDB(r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var products []models.Product
	err := withListingDetails(db, "").
		Scopes(scope).
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	prepareAll(products)
	return products, total, nil
}

// ListByOwner returns every listing of the owner regardless of status.
func (r *productRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Product, error) {
	var products []models.Product
	err := withListingDetails(r.db.WithContext(ctx), "").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	prepareAll(products)
	return products, nil
}

// Delete soft-deletes the product and drops cart lines that reference it.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProducts(ctx, id)
	return nil
}

// MarkSold flips an available product to sold. It reports false when the
// product was already sold (or otherwise unavailable) so the caller can abort.
func (r *productRepository) MarkSold(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND (status = ? OR status IS NULL OR status = '')", id, models.StatusAvailable).
		Update("status", models.StatusSold)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ResetAllAvailable puts every listing back on sale.
func (r *productRepository) ResetAllAvailable(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("status <> ? OR status IS NULL", models.StatusAvailable).
		Update("status", models.StatusAvailable)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	cache.InvalidateProducts(ctx)
	return res.RowsAffected, nil
}
