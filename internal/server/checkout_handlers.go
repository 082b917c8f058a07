package server

import (
	"github.com/gofiber/fiber/v2"
)

// Checkout handles POST /api/checkout
// @Summary Buy everything in the cart
// @Description All lines are bought atomically. A product sold to someone else
// @Description after it entered the cart fails the whole checkout.
// @Tags checkout
// @Produce json
// @Param user-id header int false "Caller id"
// @Success 200 {object} object{message=string,order_id=string,total_items=int,total_amount=number,purchases=[]service.PurchaseSummary}
// @Failure 400 {object} object{error=string,unavailable_products=[]service.UnavailableProduct}
// @Failure 409 {object} object{error=string,unavailable_products=[]service.UnavailableProduct}
// @Router /checkout [post]
func (s *Server) Checkout(c *fiber.Ctx) error {
	userID := currentUserID(c)

	result, err := s.checkoutService.Checkout(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	s.publishCheckout(c.UserContext(), userID, result)

	return c.JSON(fiber.Map{
		"message":      "Checkout successful!",
		"order_id":     result.OrderID,
		"total_items":  result.TotalItems,
		"total_amount": result.TotalAmount,
		"purchases":    result.Purchases,
	})
}

// GetPreviousPurchases handles GET /api/purchases/previous
// @Summary Caller's purchase history
// @Tags purchases
// @Produce json
// @Param user-id header int false "Caller id"
// @Success 200 {object} object{purchases=[]models.PreviousPurchase,total=int}
// @Router /purchases/previous [get]
func (s *Server) GetPreviousPurchases(c *fiber.Ctx) error {
	purchases, err := s.userService.PreviousPurchases(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"purchases": purchases,
		"total":     len(purchases),
	})
}
