package seed

import (
	"context"
	"fmt"
	"log"

	"marketplace/internal/cache"
	"marketplace/internal/models"
	"marketplace/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a Seeder.
type Options struct {
	// RandSeed makes generated data reproducible when non-zero.
	RandSeed int64
	// MaxDays bounds how far back generated timestamps go.
	MaxDays int
	// FastHash hashes the shared password with bcrypt.MinCost.
	FastHash bool
}

// Report counts what a seeding run created.
type Report struct {
	Users     int
	Products  int
	CartItems int
	Purchases int
}

// Seeder creates and removes marketplace data.
type Seeder struct {
	db        *gorm.DB
	opts      Options
	products  repository.ProductRepository
	carts     repository.CartRepository
	purchases repository.PurchaseRepository
	factory   *Factory
}

// NewSeeder returns a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	cost := bcrypt.DefaultCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	return &Seeder{
		db:        db,
		opts:      opts,
		products:  repository.NewProductRepository(db),
		carts:     repository.NewCartRepository(db),
		purchases: repository.NewPurchaseRepository(db),
		factory:   NewFactory(db, string(hash), opts.RandSeed, opts.MaxDays),
	}, nil
}

// Factory exposes the seeder's entity factory.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// ApplyPreset seeds using one of the bundled presets.
func (s *Seeder) ApplyPreset(ctx context.Context, name string) (*Report, error) {
	presets, err := DefaultPresets()
	if err != nil {
		return nil, err
	}
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames(presets))
	}
	log.Printf("🌱 Applying preset %q", name)
	return s.Seed(ctx, p)
}

// Seed creates users, listings, carts and purchases as described by p.
func (s *Seeder) Seed(ctx context.Context, p Preset) (*Report, error) {
	report := &Report{}

	users, err := s.seedUsers(ctx, p.Users)
	if err != nil {
		return report, fmt.Errorf("failed to create users: %w", err)
	}
	report.Users = len(users)
	log.Printf("✓ %d users created", len(users))

	products, err := s.seedProducts(ctx, users, p)
	if err != nil {
		return report, fmt.Errorf("failed to create products: %w", err)
	}
	report.Products = len(products)
	log.Printf("✓ %d products created", len(products))

	report.CartItems, err = s.seedCarts(ctx, users, products, p.Carts)
	if err != nil {
		return report, fmt.Errorf("failed to fill carts: %w", err)
	}
	log.Printf("✓ %d cart items created", report.CartItems)

	report.Purchases, err = s.seedPurchases(ctx, users, products, p.Purchases)
	if err != nil {
		return report, fmt.Errorf("failed to create purchases: %w", err)
	}
	log.Printf("✓ %d purchases created", report.Purchases)

	cache.InvalidateProducts(ctx)
	return report, nil
}

func (s *Seeder) seedUsers(ctx context.Context, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		var overrides []func(*models.User)
		if i == 0 {
			// Stable login for demos.
			overrides = append(overrides, func(u *models.User) {
				u.Username = "demo"
				u.Email = "demo@example.com"
			})
		}

		user, err := s.factory.CreateUser(ctx, overrides...)
		if err != nil {
			return users, err
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

func (s *Seeder) seedProducts(ctx context.Context, users []*models.User, p Preset) ([]*models.Product, error) {
	products := make([]*models.Product, 0, len(p.Catalog)+p.RandomProducts)

	for _, item := range p.Catalog {
		product, err := s.factory.ProductFromCatalog(users[0], item)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	for i := 0; i < p.RandomProducts; i++ {
		owner := users[s.factory.faker.Number(0, len(users)-1)]
		products = append(products, s.factory.BuildProduct(owner))
	}

	if err := s.factory.CreateProductsBatch(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// seedCarts gives up to count buyers a few lines each, never their own listings.
func (s *Seeder) seedCarts(ctx context.Context, users []*models.User, products []*models.Product, count int) (int, error) {
	if len(users) < 2 || len(products) == 0 {
		return 0, nil
	}
	if count > len(users) {
		count = len(users)
	}

	created := 0
	for i := 0; i < count; i++ {
		buyer := users[(i+1)%len(users)]
		cart, err := s.carts.GetOrCreate(ctx, buyer.ID)
		if err != nil {
			return created, err
		}

		want, added := s.factory.faker.Number(1, 3), 0
		for attempt := 0; added < want && attempt < want*4; attempt++ {
			product := products[s.factory.faker.Number(0, len(products)-1)]
			if product.OwnerID == buyer.ID {
				continue
			}
			_, isNew, err := s.carts.AddItem(ctx, cart.ID, product.ID, s.factory.faker.Number(1, 3))
			if err != nil {
				return created, err
			}
			if isNew {
				created++
				added++
			}
		}
	}
	return created, nil
}

// seedPurchases records past orders the same way checkout does: the listing
// is marked sold first and only then is the purchase row written.
func (s *Seeder) seedPurchases(ctx context.Context, users []*models.User, products []*models.Product, count int) (int, error) {
	if len(users) < 2 || len(products) == 0 {
		return 0, nil
	}

	created := 0
	for attempt := 0; created < count && attempt < count*4; attempt++ {
		buyer := users[s.factory.faker.Number(0, len(users)-1)]
		product := products[s.factory.faker.Number(0, len(products)-1)]
		if product.OwnerID == buyer.ID {
			continue
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			sold, err := repository.NewProductRepository(tx).MarkSold(ctx, product.ID)
			if err != nil || !sold {
				return err
			}
			purchase := &models.PreviousPurchase{
				UserID:      buyer.ID,
				ProductID:   product.ID,
				OrderID:     "ORDER-" + uuid.NewString(),
				PricePaid:   product.Price,
				Quantity:    1,
				PurchasedAt: s.factory.pastTime(),
			}
			if err := repository.NewPurchaseRepository(tx).Create(ctx, purchase); err != nil {
				return err
			}
			created++
			return nil
		})
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

// Reset puts every listing back on sale and empties every cart.
func (s *Seeder) Reset(ctx context.Context) (productsReset, cartItemsCleared int64, err error) {
	productsReset, err = s.products.ResetAllAvailable(ctx)
	if err != nil {
		return 0, 0, err
	}
	cartItemsCleared, err = s.carts.ClearAll(ctx)
	if err != nil {
		return productsReset, 0, err
	}
	log.Printf("🔄 Reset %d products to available, cleared %d cart items", productsReset, cartItemsCleared)
	return productsReset, cartItemsCleared, nil
}

// ClearPurchases deletes the whole purchase history.
func (s *Seeder) ClearPurchases(ctx context.Context) (int64, error) {
	n, err := s.purchases.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	log.Printf("🗑️  Cleared %d purchases", n)
	return n, nil
}

// ClearAll removes every row the seeder can create, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	log.Println("🗑️  Clearing existing data...")
	tables := []any{
		&models.PreviousPurchase{},
		&models.CartItem{},
		&models.Cart{},
		&models.ProductImage{},
		&models.Product{},
		&models.User{},
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		cache.InvalidateProducts(ctx)
		return nil
	})
}
