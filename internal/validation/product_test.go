package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validProduct() ProductInput {
	return ProductInput{
		Title:       "Vintage lamp",
		Description: "Brass desk lamp in working order",
		Category:    "Home & Garden",
		Price:       decimal.RequireFromString("24.50"),
		Images:      []string{"https://cdn.example.com/lamp.jpg"},
	}
}

func TestValidateProduct(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(in *ProductInput)
		wantErr string
	}{
		{"Valid", func(in *ProductInput) {}, ""},
		{"Missing Title", func(in *ProductInput) { in.Title = "   " }, "are required"},
		{"Missing Price", func(in *ProductInput) { in.Price = decimal.Zero }, "are required"},
		{"Short Title After Trim", func(in *ProductInput) { in.Title = "  ab  " }, "Title must be between"},
		{"Long Title", func(in *ProductInput) { in.Title = strings.Repeat("a", 101) }, "Title must be between"},
		{"Short Description", func(in *ProductInput) { in.Description = "too short" }, "Description must be between"},
		{"Long Description", func(in *ProductInput) { in.Description = strings.Repeat("d", 1001) }, "Description must be between"},
		{"Unknown Category", func(in *ProductInput) { in.Category = "Weapons" }, "Category must be one of"},
		{"Negative Price", func(in *ProductInput) { in.Price = decimal.NewFromInt(-1) }, "Price must be between"},
		{"Price Too High", func(in *ProductInput) { in.Price = decimal.RequireFromString("10000.01") }, "Price must be between"},
		{"Max Price", func(in *ProductInput) { in.Price = decimal.NewFromInt(10000) }, ""},
		{"Min Price", func(in *ProductInput) { in.Price = decimal.RequireFromString("0.01") }, ""},
		{"Three Decimals", func(in *ProductInput) { in.Price = decimal.RequireFromString("1.005") }, "two decimal places"},
		{"No Images", func(in *ProductInput) { in.Images = nil }, "At least one image"},
		{"Too Many Images", func(in *ProductInput) {
			in.Images = []string{"https://a/1", "https://a/2", "https://a/3", "https://a/4", "https://a/5", "https://a/6"}
		}, "Maximum 5 images"},
		{"Bad Image URL", func(in *ProductInput) { in.Images = []string{"ftp://files/lamp.jpg"} }, "valid http(s) URL"},
		{"Empty Image URL", func(in *ProductInput) { in.Images = []string{""} }, "valid http(s) URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProduct()
			tt.mutate(&in)
			err := ValidateProduct(in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuantity(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateQuantity(1))
	assert.NoError(t, ValidateQuantity(99))
	assert.Error(t, ValidateQuantity(0))
	assert.Error(t, ValidateQuantity(-3))
	assert.Error(t, ValidateQuantity(100))
}
