// Package validation holds pure input checks shared by services and handlers.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"marketplace/internal/models"

	"github.com/shopspring/decimal"
)

const (
	MaxImagesPerProduct = 5
	MinCartQuantity     = 1
	MaxCartQuantity     = 99
)

var (
	minPrice = decimal.RequireFromString("0.01")
	maxPrice = decimal.NewFromInt(10000)
)

// ProductInput is the user-supplied part of a listing.
type ProductInput struct {
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
	Images      []string
}

// ValidateProduct checks a new listing. Title and description are measured after trimming.
func ValidateProduct(in ProductInput) error {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)

	if title == "" || description == "" || category == "" || in.Price.IsZero() {
		return errors.New("Title, description, category, and price are required")
	}
	if n := utf8.RuneCountInString(title); n < 3 || n > 100 {
		return errors.New("Title must be between 3 and 100 characters")
	}
	if n := utf8.RuneCountInString(description); n < 10 || n > 1000 {
		return errors.New("Description must be between 10 and 1000 characters")
	}
	if !models.IsValidCategory(category) {
		return fmt.Errorf("Category must be one of: %s", strings.Join(models.Categories, ", "))
	}
	if err := ValidatePrice(in.Price); err != nil {
		return err
	}
	return ValidateImages(in.Images)
}

// ValidatePrice requires 0.01 <= price <= 10000 with at most two decimal places.
func ValidatePrice(price decimal.Decimal) error {
	if price.LessThan(minPrice) || price.GreaterThan(maxPrice) {
		return errors.New("Price must be between $0.01 and $10,000")
	}
	if !price.Equal(price.Round(2)) {
		return errors.New("Price cannot have more than two decimal places")
	}
	return nil
}

// ValidateImages requires 1 to MaxImagesPerProduct http(s) URLs.
func ValidateImages(images []string) error {
	if len(images) == 0 {
		return errors.New("At least one image is required")
	}
	if len(images) > MaxImagesPerProduct {
		return fmt.Errorf("Maximum %d images allowed", MaxImagesPerProduct)
	}
	for i, raw := range images {
		if !isHTTPURL(raw) {
			return fmt.Errorf("Image %d must be a valid http(s) URL", i+1)
		}
	}
	return nil
}

// ValidateQuantity bounds a cart line quantity.
func ValidateQuantity(quantity int) error {
	if quantity < MinCartQuantity || quantity > MaxCartQuantity {
		return fmt.Errorf("Quantity must be between %d and %d", MinCartQuantity, MaxCartQuantity)
	}
	return nil
}

func isHTTPURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
