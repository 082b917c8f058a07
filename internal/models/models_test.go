package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewBusinessRuleError("no"), fiber.StatusBadRequest},
		{NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{NewForbiddenError("mine"), fiber.StatusForbidden},
		{NewNotFoundError("Product", 1), fiber.StatusNotFound},
		{NewConflictError("taken", nil), fiber.StatusConflict},
		{NewInternalError(errors.New("db down")), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewForbiddenError("x")), fiber.StatusForbidden},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("Cart item", 9)
	assert.Equal(t, "Cart item not found", err.Message)
	assert.Contains(t, err.Error(), "Cart item 9 does not exist")
}

func respond(t *testing.T, status int, err error) map[string]any {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return RespondWithError(c, status, err) })

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	assert.Equal(t, status, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestRespondWithError_AppErrorWithDetails(t *testing.T) {
	err := NewBusinessRuleError("Some products are no longer available").
		WithDetail("unavailable_products", []map[string]any{{"id": 1}})

	body := respond(t, StatusFor(err), err)
	assert.Equal(t, "Some products are no longer available", body["error"])
	assert.Equal(t, CodeBusinessRule, body["code"])
	assert.Len(t, body["unavailable_products"], 1)
}

func TestRespondWithError_HidesInternalMessages(t *testing.T) {
	body := respond(t, fiber.StatusInternalServerError, errors.New("pq: connection refused"))
	assert.Equal(t, "Internal server error", body["error"])
}

func TestProductStatus(t *testing.T) {
	assert.True(t, ProductStatus("").IsAvailable())
	assert.True(t, StatusAvailable.IsAvailable())
	assert.False(t, StatusSold.IsAvailable())
	assert.False(t, StatusPending.IsAvailable())
	assert.Equal(t, StatusAvailable, ProductStatus("").Normalized())
}

func TestProduct_PrepareOrdersMainImageFirst(t *testing.T) {
	p := &Product{Images: []ProductImage{
		{ID: 3, ImageURL: "https://img/3"},
		{ID: 5, ImageURL: "https://img/5", IsMain: true},
		{ID: 1, ImageURL: "https://img/1"},
	}}
	p.Prepare()

	assert.Equal(t, []string{"https://img/5", "https://img/1", "https://img/3"}, p.ImageURLs)
	assert.Equal(t, StatusAvailable, p.Status)
}

func TestProduct_PriceMarshalsAsNumber(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("19.99")}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":19.99`)
	assert.NotContains(t, string(raw), `"password"`)
}

func TestCartItem_LineTotal(t *testing.T) {
	item := CartItem{Quantity: 3, Product: &Product{Price: decimal.RequireFromString("2.50")}}
	assert.True(t, decimal.RequireFromString("7.5").Equal(item.LineTotal()))

	assert.True(t, (&CartItem{Quantity: 2}).LineTotal().IsZero())
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory("Electronics"))
	assert.False(t, IsValidCategory("electronics"))
	assert.False(t, IsValidCategory(""))
}

func TestProduct_PrepareKeepsCachedImageURLs(t *testing.T) {
	p := &Product{ImageURLs: []string{"https://img/1"}}
	p.Prepare()
	assert.Equal(t, []string{"https://img/1"}, p.ImageURLs)

	empty := &Product{}
	empty.Prepare()
	assert.NotNil(t, empty.ImageURLs)
}

func TestProduct_OwnerRendersPublicSummary(t *testing.T) {
	p := &Product{
		Title: "lamp",
		Owner: &User{ID: 4, Username: "seller", Email: "seller@example.com", Address: "1 Main St", ProfilePic: "https://img/me"},
	}
	p.Prepare()

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	owner, ok := body["owner"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, owner, 3)
	assert.EqualValues(t, 4, owner["id"])
	assert.Equal(t, "seller", owner["username"])
	assert.Equal(t, "https://img/me", owner["profile_pic"])

	var cached Product
	require.NoError(t, json.Unmarshal(raw, &cached))
	cached.Prepare()
	require.NotNil(t, cached.OwnerSummary)
	assert.Equal(t, "seller", cached.OwnerSummary.Username)
}
