// Package service holds the marketplace's business rules on top of the repositories.
package service

import (
	"errors"

	"marketplace/internal/models"
)

var (
	// ErrCheckoutConflict means another checkout sold a product between the
	// availability check and the conditional update.
	ErrCheckoutConflict = errors.New("product was sold by a concurrent checkout")
	// ErrCartEmpty means checkout was attempted without any cart lines.
	ErrCartEmpty = errors.New("cart is empty")
)

// UnavailableProduct identifies a cart line that can no longer be bought.
type UnavailableProduct struct {
	ID     uint                 `json:"id"`
	Title  string               `json:"title"`
	Status models.ProductStatus `json:"status"`
}

func cartEmptyError() *models.AppError {
	return &models.AppError{Code: models.CodeBusinessRule, Message: "Cart is empty", Err: ErrCartEmpty}
}

func checkoutConflictError(products []UnavailableProduct) *models.AppError {
	return models.NewConflictError("Some products were sold to another buyer", ErrCheckoutConflict).
		WithDetail("unavailable_products", products)
}
