// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles product catalog reads
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{
		db:  db,
		log: log,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	BrandID    uint   `form:"brand_id"`
	Search     string `form:"search"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsActive   *bool  `form:"is_active"`
}

// ProductPage represents a product listing with pagination info
type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ResolvedVariant is the display snapshot the cart captures at add-time.
// VariantID equals ProductID when the product has no variant layer.
type ResolvedVariant struct {
	VariantID uint   `json:"variant_id"`
	ProductID uint   `json:"product_id"`
	Price     int64  `json:"price"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// GetProducts retrieves products with filtering and pagination. Filtering by
// category includes all of the category's descendants via a path-prefix match
// on the materialized category path.
func (s *Service) GetProducts(req *ProductListRequest) (*ProductPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	query := s.db.Model(&Product{}).
		Preload("Category").
		Preload("Brand")

	if req.CategoryID > 0 {
		var category Category
		if err := s.db.Select("id", "path").Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to resolve category filter: %w", err)
		}
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.path = ? OR categories.path LIKE ?", category.Path, category.Path+"/%")
	}

	if req.BrandID > 0 {
		query = query.Where("products.brand_id = ?", req.BrandID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", search, search)
	}

	if req.MinPrice > 0 {
		query = query.Where("products.price >= ?", req.MinPrice)
	}
	if req.MaxPrice > 0 {
		query = query.Where("products.price <= ?", req.MaxPrice)
	}
	if req.IsActive != nil {
		query = query.Where("products.is_active = ?", *req.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	err := query.Order("products.sort_order ASC, products.name ASC").
		Offset(offset).Limit(req.Limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ProductPage{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	err := s.db.
		Preload("Category").
		Preload("Brand").
		Preload("Variants", "is_active = ?", true).
		Where("id = ?", id).
		First(&product).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	return &product, nil
}

// GetProductBySlug retrieves a single active product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var product Product
	err := s.db.
		Preload("Category").
		Preload("Brand").
		Preload("Variants", "is_active = ?", true).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	return &product, nil
}

// ResolveVariant resolves a purchasable entity for the cart: first as a
// product variant, then as a top-level product (a product without a variant
// layer is its own variant). Returns ErrProductNotFound when neither matches.
func (s *Service) ResolveVariant(variantID uint) (*ResolvedVariant, error) {
	var variant ProductVariant
	err := s.db.Where("id = ? AND is_active = ?", variantID, true).First(&variant).Error
	if err == nil {
		var product Product
		if err := s.db.Where("id = ? AND is_active = ?", variant.ProductID, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to resolve variant product: %w", err)
		}

		price := product.Price
		if variant.Price > 0 {
			price = variant.Price
		}

		title := product.Name
		if variant.Name != "" {
			title = product.Name + " - " + variant.Name
		}

		return &ResolvedVariant{
			VariantID: variant.ID,
			ProductID: product.ID,
			Price:     price,
			Title:     title,
			Thumbnail: product.Thumbnail,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve variant: %w", err)
	}

	var product Product
	err = s.db.Where("id = ? AND is_active = ?", variantID, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	return &ResolvedVariant{
		VariantID: product.ID,
		ProductID: product.ID,
		Price:     product.Price,
		Title:     product.Name,
		Thumbnail: product.Thumbnail,
	}, nil
}
