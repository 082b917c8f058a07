package server

import (
	"marketplace/internal/models"
	"marketplace/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCart handles GET /api/cart
// @Summary Caller's cart
// @Tags cart
// @Produce json
// @Param user-id header int false "Caller id"
// @Success 200 {object} service.CartView
// @Router /cart [get]
func (s *Server) GetCart(c *fiber.Ctx) error {
	view, err := s.cartService.ListItems(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// AddToCart handles POST /api/cart/add
// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param user-id header int false "Caller id"
// @Param request body object{product_id=int,quantity=int} true "Product and quantity (default 1)"
// @Success 200 {object} object{message=string,cart_item=models.CartItem}
// @Success 201 {object} object{message=string,cart_item=models.CartItem}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /cart/add [post]
func (s *Server) AddToCart(c *fiber.Ctx) error {
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}
	if req.ProductID == 0 {
		return respondError(c, models.NewValidationError("Product ID is required"))
	}

	item, created, err := s.cartService.AddItem(c.UserContext(), service.AddToCartInput{
		UserID:    currentUserID(c),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}

	if created {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":   "Product added to cart successfully",
			"cart_item": item,
		})
	}
	return c.JSON(fiber.Map{
		"message":   "Product quantity updated in cart",
		"cart_item": item,
	})
}

// UpdateCartItem handles PUT /api/cart/:id
// @Summary Change a cart line's quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param user-id header int false "Caller id"
// @Param id path int true "Cart item ID"
// @Param request body object{quantity=int} true "New quantity"
// @Success 200 {object} object{message=string,cart_item=models.CartItem}
// @Failure 403 {object} object{error=string}
// @Router /cart/{id} [put]
func (s *Server) UpdateCartItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "cart item ID")
	if err != nil {
		return nil
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	item, err := s.cartService.UpdateItemQuantity(c.UserContext(), currentUserID(c), id, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":   "Cart item updated successfully",
		"cart_item": item,
	})
}

// RemoveCartItem handles DELETE /api/cart/:id
// @Summary Remove a line from the cart
// @Tags cart
// @Produce json
// @Param user-id header int false "Caller id"
// @Param id path int true "Cart item ID"
// @Success 200 {object} object{message=string,deleted_item=object}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /cart/{id} [delete]
func (s *Server) RemoveCartItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "cart item ID")
	if err != nil {
		return nil
	}

	item, err := s.cartService.RemoveItem(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}

	deleted := fiber.Map{"id": item.ID, "product_id": item.ProductID}
	if item.Product != nil {
		deleted["product_title"] = item.Product.Title
	}
	return c.JSON(fiber.Map{
		"message":      "Item removed from cart successfully",
		"deleted_item": deleted,
	})
}
