package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductStatus is the lifecycle state of a listing.
type ProductStatus string

const (
	StatusAvailable ProductStatus = "available"
	StatusSold      ProductStatus = "sold"
	StatusPending   ProductStatus = "pending"
)

// Normalized treats an unset status as available.
func (s ProductStatus) Normalized() ProductStatus {
	if s == "" {
		return StatusAvailable
	}
	return s
}

// IsAvailable reports whether the listing can be added to a cart or bought.
func (s ProductStatus) IsAvailable() bool {
	return s.Normalized() == StatusAvailable
}

// Categories lists the accepted listing categories in display order.
var Categories = []string{
	"Fashion & Accessories",
	"Home & Garden",
	"Electronics",
	"Books & Media",
	"Sports & Outdoors",
	"Toys & Games",
	"Health & Beauty",
	"Automotive",
	"Art & Crafts",
	"Food & Beverages",
	"Other",
}

// IsValidCategory reports whether name is one of Categories.
func IsValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Product is a listing offered by its owner.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:100;not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    string          `gorm:"size:50;not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Status      ProductStatus   `gorm:"size:20;not null;default:available;index" json:"status"`
	OwnerID     uint            `gorm:"not null;index" json:"owner_id"`
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"-"`
	// OwnerSummary is the public view of Owner that listings render.
	OwnerSummary *UserSummary   `gorm:"-" json:"owner,omitempty"`
	Images       []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	// ImageURLs is derived from Images, main image first.
	ImageURLs []string       `gorm:"-" json:"images"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductImage is one image URL of a listing.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	ImageURL  string `gorm:"type:text;not null" json:"image_url"`
	IsMain    bool   `gorm:"not null;default:false" json:"is_main"`
}

// Prepare normalizes the status and fills OwnerSummary and ImageURLs for
// rendering. Derived fields are left alone when their source was not loaded
// (e.g. a cached copy).
func (p *Product) Prepare() {
	p.Status = p.Status.Normalized()
	if p.Owner != nil {
		summary := p.Owner.Summary()
		p.OwnerSummary = &summary
	}
	if len(p.Images) == 0 {
		if p.ImageURLs == nil {
			p.ImageURLs = []string{}
		}
		return
	}

	images := append([]ProductImage(nil), p.Images...)
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].IsMain != images[j].IsMain {
			return images[i].IsMain
		}
		return images[i].ID < images[j].ID
	})

	p.ImageURLs = make([]string, 0, len(images))
	for _, img := range images {
		p.ImageURLs = append(p.ImageURLs, img.ImageURL)
	}
}
