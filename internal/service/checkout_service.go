package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/cache"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/observability"
	"marketplace/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// CheckoutService converts a cart into purchases.
type CheckoutService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	now      func() time.Time
}

type PurchaseSummary struct {
	ID          uint      `json:"id"`
	ProductID   uint      `json:"product_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// SoldItem describes one line of a completed order, for seller notifications.
type SoldItem struct {
	ProductID uint
	Title     string
	SellerID  uint
	Price     decimal.Decimal
	Quantity  int
}

type CheckoutResult struct {
	OrderID     string            `json:"order_id"`
	TotalItems  int               `json:"total_items"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Purchases   []PurchaseSummary `json:"purchases"`
	Sold        []SoldItem        `json:"-"`
}

func NewCheckoutService(db *gorm.DB, userRepo repository.UserRepository) *CheckoutService {
	return &CheckoutService{db: db, userRepo: userRepo, now: time.Now}
}

// Checkout buys every line of the user's cart in one transaction.
//
// Availability is checked up front so a stale cart is rejected without
// writing anything. Inside the transaction every product is flipped to sold
// with a conditional update; if any update matches no row a concurrent
// checkout got there first and the whole order is rolled back with a conflict.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint) (result *CheckoutResult, err error) {
	ctx, end := observability.StartSpan(ctx, "checkout.process", attribute.Int64("user.id", int64(userID)))
	defer func() { end(err) }()

	if _, err = s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	carts := repository.NewCartRepository(s.db)
	cart, err := carts.FindByUserID(ctx, userID)
	if err != nil {
		observability.RecordCheckout(observability.OutcomeError, 0)
		return nil, err
	}
	if cart == nil {
		observability.RecordCheckout(observability.OutcomeEmptyCart, 0)
		return nil, cartEmptyError()
	}

	items, err := carts.ListItems(ctx, cart.ID)
	if err != nil {
		observability.RecordCheckout(observability.OutcomeError, 0)
		return nil, err
	}
	if len(items) == 0 {
		observability.RecordCheckout(observability.OutcomeEmptyCart, 0)
		return nil, cartEmptyError()
	}

	var unavailable []UnavailableProduct
	for _, item := range items {
		if item.Product == nil {
			unavailable = append(unavailable, UnavailableProduct{ID: item.ProductID, Status: models.StatusSold})
			continue
		}
		if !item.Product.Status.IsAvailable() {
			unavailable = append(unavailable, UnavailableProduct{
				ID:     item.Product.ID,
				Title:  item.Product.Title,
				Status: item.Product.Status,
			})
		}
	}
	if len(unavailable) > 0 {
		observability.RecordCheckout(observability.OutcomeUnavailable, 0)
		return nil, models.NewBusinessRuleError("Some products are no longer available").
			WithDetail("unavailable_products", unavailable)
	}

	result = &CheckoutResult{
		OrderID:     "ORDER-" + uuid.NewString(),
		TotalItems:  len(items),
		TotalAmount: decimal.Zero,
		Purchases:   make([]PurchaseSummary, 0, len(items)),
		Sold:        make([]SoldItem, 0, len(items)),
	}
	purchasedAt := s.now().UTC()

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchases := repository.NewPurchaseRepository(tx)
		products := repository.NewProductRepository(tx)

		var conflicts []UnavailableProduct
		for _, item := range items {
			purchase := &models.PreviousPurchase{
				UserID:      userID,
				ProductID:   item.ProductID,
				OrderID:     result.OrderID,
				PricePaid:   item.Product.Price,
				Quantity:    item.Quantity,
				PurchasedAt: purchasedAt,
			}
			if err := purchases.Create(ctx, purchase); err != nil {
				return fmt.Errorf("record purchase of product %d: %w", item.ProductID, err)
			}

			sold, err := products.MarkSold(ctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("mark product %d sold: %w", item.ProductID, err)
			}
			if !sold {
				conflicts = append(conflicts, UnavailableProduct{
					ID:     item.ProductID,
					Title:  item.Product.Title,
					Status: models.StatusSold,
				})
				continue
			}

			result.Purchases = append(result.Purchases, PurchaseSummary{
				ID:          purchase.ID,
				ProductID:   purchase.ProductID,
				PurchasedAt: purchase.PurchasedAt,
			})
			result.Sold = append(result.Sold, SoldItem{
				ProductID: item.ProductID,
				Title:     item.Product.Title,
				SellerID:  item.Product.OwnerID,
				Price:     item.Product.Price,
				Quantity:  item.Quantity,
			})
			result.TotalAmount = result.TotalAmount.Add(item.LineTotal())
		}
		if len(conflicts) > 0 {
			return checkoutConflictError(conflicts)
		}

		if _, err := repository.NewCartRepository(tx).ClearItems(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart %d: %w", cart.ID, err)
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrCheckoutConflict) {
			observability.RecordCheckout(observability.OutcomeConflict, 0)
			middleware.Logger.WarnContext(ctx, "checkout lost race for products", "error", txErr)
			return nil, txErr
		}
		observability.RecordCheckout(observability.OutcomeError, 0)
		return nil, models.NewInternalError(txErr)
	}

	ids := make([]uint, 0, len(result.Sold))
	for _, sold := range result.Sold {
		ids = append(ids, sold.ProductID)
	}
	cache.InvalidateProducts(ctx, ids...)

	observability.RecordCheckout(observability.OutcomeSuccess, result.TotalAmount.InexactFloat64())
	middleware.Logger.InfoContext(ctx, "checkout completed",
		"order_id", result.OrderID,
		"items", result.TotalItems,
		"total_amount", result.TotalAmount.String(),
	)
	return result, nil
}
