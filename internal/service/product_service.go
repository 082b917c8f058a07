package service

import (
	"context"
	"strings"

	"marketplace/internal/cache"
	"marketplace/internal/featureflags"
	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/validation"

	"github.com/shopspring/decimal"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ProductService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	flags       *featureflags.Manager
}

type CreateProductInput struct {
	OwnerID     uint
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
	Images      []string
}

type ListProductsInput struct {
	Search        string
	Category      string
	Page          int
	Limit         int
	CurrentUserID uint
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ProductPage is one page of the catalog.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

func NewProductService(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	flags *featureflags.Manager,
) *ProductService {
	return &ProductService{productRepo: productRepo, userRepo: userRepo, flags: flags}
}

// CreateProduct validates and stores a new listing. The first image becomes the main image.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := validation.ValidateProduct(validation.ProductInput{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Images:      in.Images,
	}); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	owner, err := s.userRepo.GetByID(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}

	images := make([]models.ProductImage, 0, len(in.Images))
	for i, url := range in.Images {
		images = append(images, models.ProductImage{ImageURL: strings.TrimSpace(url), IsMain: i == 0})
	}

	product := &models.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Status:      models.StatusAvailable,
		OwnerID:     owner.ID,
		Images:      images,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	product.Owner = owner
	product.Prepare()
	return product, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// ListProducts returns one page of the catalog, newest first. The unfiltered
// first page is served through the cache when product_list_cache is on.
func (s *ProductService) ListProducts(ctx context.Context, in ListProductsInput) (*ProductPage, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	in.Search = strings.TrimSpace(in.Search)
	in.Category = strings.TrimSpace(in.Category)

	fetch := func(dest *ProductPage) error {
		products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
			Search:   in.Search,
			Category: in.Category,
			Limit:    limit,
			Offset:   (page - 1) * limit,
		})
		if err != nil {
			return err
		}
		if products == nil {
			products = []models.Product{}
		}
		pages := int((total + int64(limit) - 1) / int64(limit))
		*dest = ProductPage{
			Products:   products,
			Pagination: Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
		}
		return nil
	}

	var result ProductPage
	cacheable := in.Search == "" && in.Category == "" && page == 1 &&
		s.flags.Enabled(featureflags.ProductListCache, in.CurrentUserID)
	if !cacheable {
		if err := fetch(&result); err != nil {
			return nil, err
		}
		return &result, nil
	}

	err := cache.Aside(ctx, cache.ProductsListKey(page, limit), &result, cache.ProductsListTTL, func() error {
		return fetch(&result)
	})
	if err != nil {
		return nil, err
	}
	for i := range result.Products {
		result.Products[i].Prepare()
	}
	return &result, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// MyListings returns every listing of the user, sold ones included.
func (s *ProductService) MyListings(ctx context.Context, userID uint) ([]models.Product, error) {
	products, err := s.productRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// DeleteProduct soft-deletes a listing owned by userID and returns it.
func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != userID {
		return nil, models.NewForbiddenError("Unauthorized to delete this product")
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return nil, err
	}
	return product, nil
}
