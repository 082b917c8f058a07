package service

import (
	"context"

	"marketplace/internal/models"
	"marketplace/internal/observability"
	"marketplace/internal/repository"
	"marketplace/internal/validation"

	"github.com/shopspring/decimal"
)

// CartService manages the caller's cart.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

type AddToCartInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// CartView is the cart as shown to its owner.
type CartView struct {
	Items            []models.CartItem `json:"cart_items"`
	Total            int               `json:"total"`
	AvailableCount   int               `json:"available_count"`
	UnavailableCount int               `json:"unavailable_count"`
	// Subtotal only counts lines whose product can still be bought.
	Subtotal decimal.Decimal `json:"subtotal"`
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// AddItem adds a product to the caller's cart, incrementing an existing line.
// The bool result is true when a new line was created.
func (s *CartService) AddItem(ctx context.Context, in AddToCartInput) (*models.CartItem, bool, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := validation.ValidateQuantity(in.Quantity); err != nil {
		return nil, false, models.NewValidationError(err.Error())
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, false, err
	}
	if !product.Status.IsAvailable() {
		return nil, false, models.NewBusinessRuleError("Product is no longer available").
			WithDetail("product_title", product.Title).
			WithDetail("product_status", product.Status)
	}
	if product.OwnerID == in.UserID {
		return nil, false, models.NewBusinessRuleError("You cannot add your own product to cart")
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, in.UserID)
	if err != nil {
		return nil, false, err
	}
	item, created, err := s.cartRepo.AddItem(ctx, cart.ID, product.ID, in.Quantity)
	if err != nil {
		return nil, false, err
	}
	item.Product = product

	observability.CartOperationsTotal.WithLabelValues("add").Inc()
	return item, created, nil
}

// ownedItem loads a cart line and checks that it belongs to userID.
func (s *CartService) ownedItem(ctx context.Context, userID, itemID uint, action string) (*models.CartItem, error) {
	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Cart == nil || item.Cart.UserID != userID {
		return nil, models.NewForbiddenError("Unauthorized to " + action + " this cart item")
	}
	return item, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	if err := validation.ValidateQuantity(quantity); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	item, err := s.ownedItem(ctx, userID, itemID, "update")
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if item.Product != nil {
		item.Product.Prepare()
	}

	observability.CartOperationsTotal.WithLabelValues("update").Inc()
	return item, nil
}

// RemoveItem deletes a line from the caller's cart. Lines in other carts are left intact.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID, "remove")
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}

	observability.CartOperationsTotal.WithLabelValues("remove").Inc()
	return item, nil
}

// ListItems returns the caller's cart, creating an empty one on first use.
func (s *CartService) ListItems(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}

	view := &CartView{Items: items, Total: len(items), Subtotal: decimal.Zero}
	for i := range items {
		if items[i].Product != nil && items[i].Product.Status.IsAvailable() {
			view.AvailableCount++
			view.Subtotal = view.Subtotal.Add(items[i].LineTotal())
		} else {
			view.UnavailableCount++
		}
	}
	return view, nil
}
