// Package seed creates demo and load-test data for the marketplace database.
// These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password of every seeded user.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db           *gorm.DB
	faker        *gofakeit.Faker
	passwordHash string
	maxDays      int
}

// NewFactory creates a Factory. A zero randSeed picks a random one.
func NewFactory(db *gorm.DB, passwordHash string, randSeed int64, maxDays int) *Factory {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		db:           db,
		faker:        gofakeit.New(randSeed),
		passwordHash: passwordHash,
		maxDays:      maxDays,
	}
}

// BuildUser returns an unsaved user with a unique-ish username and email.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	base := strings.ToLower(f.faker.Username())
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.' {
			return r
		}
		return -1
	}, base)
	if len(base) > 20 {
		base = base[:20]
	}
	username := fmt.Sprintf("%s%d", base, f.faker.Number(100, 9999))

	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   f.passwordHash,
		Address:    f.faker.Address().Address,
		ProfilePic: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildProduct returns an unsaved available listing owned by owner.
func (f *Factory) BuildProduct(owner *models.User, overrides ...func(*models.Product)) *models.Product {
	title := f.faker.ProductName()
	if len(title) > 100 {
		title = title[:100]
	}
	description := f.faker.ProductDescription()
	if len(description) < 10 {
		description = f.faker.Sentence(12)
	}
	if len(description) > 1000 {
		description = description[:1000]
	}

	product := &models.Product{
		Title:       title,
		Description: description,
		Category:    f.faker.RandomString(models.Categories),
		Price:       decimal.NewFromFloat(f.faker.Price(1, 500)).Round(2),
		Status:      models.StatusAvailable,
		OwnerID:     owner.ID,
		CreatedAt:   f.pastTime(),
	}

	images := f.faker.Number(1, 3)
	for i := 0; i < images; i++ {
		product.Images = append(product.Images, models.ProductImage{
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID()),
			IsMain:   i == 0,
		})
	}

	for _, override := range overrides {
		override(product)
	}
	return product
}

// ProductFromCatalog turns a preset catalog entry into an unsaved listing.
func (f *Factory) ProductFromCatalog(owner *models.User, item CatalogItem) (*models.Product, error) {
	price, err := decimal.NewFromString(item.Price)
	if err != nil {
		return nil, fmt.Errorf("catalog item %q: invalid price %q: %w", item.Title, item.Price, err)
	}
	if !models.IsValidCategory(item.Category) {
		return nil, fmt.Errorf("catalog item %q: unknown category %q", item.Title, item.Category)
	}

	product := &models.Product{
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Price:       price,
		Status:      models.StatusAvailable,
		OwnerID:     owner.ID,
	}
	for i, url := range item.Images {
		product.Images = append(product.Images, models.ProductImage{ImageURL: url, IsMain: i == 0})
	}
	return product, nil
}

// CreateProductsBatch persists listings (with their images) in chunks.
func (f *Factory) CreateProductsBatch(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return f.db.WithContext(ctx).CreateInBatches(products, 100).Error
}

// pastTime spreads timestamps over the last maxDays days.
func (f *Factory) pastTime() time.Time {
	days := f.faker.Number(0, f.maxDays-1)
	minutes := f.faker.Number(0, 24*60-1)
	return time.Now().Add(-time.Duration(days)*24*time.Hour - time.Duration(minutes)*time.Minute)
}
