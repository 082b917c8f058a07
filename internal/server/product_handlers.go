package server

import (
	"marketplace/internal/models"
	"marketplace/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CreateProduct handles POST /api/products
// @Summary Create a listing
// @Tags products
// @Accept json
// @Produce json
// @Param user-id header int false "Caller id"
// @Param request body object{title=string,description=string,category=string,price=number,images=[]string} true "Listing"
// @Success 201 {object} object{message=string,product=models.Product}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /products [post]
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	var req struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Price       decimal.Decimal `json:"price"`
		Images      []string        `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.CreateProduct(c.UserContext(), service.CreateProductInput{
		OwnerID:     currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Images:      req.Images,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishListingCreated(c.UserContext(), product)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// GetProducts handles GET /api/products
// @Summary Browse the catalog
// @Tags products
// @Produce json
// @Param search query string false "Matches title, description or category"
// @Param category query string false "Exact category"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} service.ProductPage
// @Router /products [get]
func (s *Server) GetProducts(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)

	page, err := s.productService.ListProducts(c.UserContext(), service.ListProductsInput{
		Search:        c.Query("search"),
		Category:      c.Query("category"),
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 20),
		CurrentUserID: userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetMyListings handles GET /api/products/my-listings
// @Summary Caller's own listings
// @Tags products
// @Produce json
// @Param user-id header int false "Caller id"
// @Success 200 {object} object{products=[]models.Product,total=int}
// @Router /products/my-listings [get]
func (s *Server) GetMyListings(c *fiber.Ctx) error {
	products, err := s.productService.MyListings(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"products": products,
		"total":    len(products),
	})
}

// GetProduct handles GET /api/products/:id
// @Summary Listing detail
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{product=models.Product}
// @Failure 404 {object} object{error=string}
// @Router /products/{id} [get]
func (s *Server) GetProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "product ID")
	if err != nil {
		return nil
	}

	product, err := s.productService.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product": product})
}

// DeleteProduct handles DELETE /api/products/:id and the legacy /api/products/:id/delete
// @Summary Delete a listing
// @Tags products
// @Produce json
// @Param user-id header int false "Caller id"
// @Param id path int true "Product ID"
// @Success 200 {object} object{message=string,deleted_product=object}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /products/{id} [delete]
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "product ID")
	if err != nil {
		return nil
	}

	product, err := s.productService.DeleteProduct(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}

	s.publishListingDeleted(c.UserContext(), product)

	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
		"deleted_product": fiber.Map{
			"id":    product.ID,
			"title": product.Title,
		},
	})
}
