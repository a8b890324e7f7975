// internal/domain/catalog/brand_service.go
package catalog

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/pkg/slugify"
)

// BrandService handles brand operations
type BrandService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewBrandService creates a new brand service
func NewBrandService(db *gorm.DB, log *logrus.Logger) *BrandService {
	return &BrandService{
		db:  db,
		log: log,
	}
}

// BrandCreateRequest represents brand creation data
type BrandCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
	IsActive    *bool  `json:"is_active"`
}

// BrandUpdateRequest represents brand update data
type BrandUpdateRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	Website     *string `json:"website"`
	IsActive    *bool   `json:"is_active"`
}

// ListBrands retrieves all brands ordered by name
func (s *BrandService) ListBrands(activeOnly bool) ([]Brand, error) {
	query := s.db.Model(&Brand{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var brands []Brand
	if err := query.Order("name ASC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve brands: %w", err)
	}

	return brands, nil
}

// GetBrand retrieves a brand by ID
func (s *BrandService) GetBrand(id uint) (*Brand, error) {
	var brand Brand
	if err := s.db.Where("id = ?", id).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to retrieve brand: %w", err)
	}

	return &brand, nil
}

// CreateBrand creates a new brand. Brand slugs are globally unique.
func (s *BrandService) CreateBrand(req *BrandCreateRequest) (*Brand, error) {
	slug := slugify.Generate(req.Name)
	if req.Slug != "" {
		slug = slugify.Generate(req.Slug)
	}
	if slug == "" {
		return nil, fmt.Errorf("brand name produces an empty slug")
	}

	var count int64
	if err := s.db.Model(&Brand{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check brand slug: %w", err)
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	brand := &Brand{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		IsActive:    true,
	}
	if req.IsActive != nil {
		brand.IsActive = *req.IsActive
	}

	if err := s.db.Create(brand).Error; err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"brand_id": brand.ID,
		"slug":     brand.Slug,
	}).Info("Brand created")

	return brand, nil
}

// UpdateBrand applies a partial update to a brand
func (s *BrandService) UpdateBrand(id uint, req *BrandUpdateRequest) (*Brand, error) {
	brand, err := s.GetBrand(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		if slug := slugify.Generate(*req.Slug); slug != "" && slug != brand.Slug {
			var count int64
			if err := s.db.Model(&Brand{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("failed to check brand slug: %w", err)
			}
			if count > 0 {
				return nil, ErrSlugTaken
			}
			updates["slug"] = slug
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(brand).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update brand: %w", err)
		}
	}

	return s.GetBrand(id)
}

// DeleteBrand deletes a brand. Brands referenced by products cannot be deleted.
func (s *BrandService) DeleteBrand(id uint) error {
	var productCount int64
	if err := s.db.Model(&Product{}).Where("brand_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to check brand products: %w", err)
	}
	if productCount > 0 {
		return ErrHasProducts
	}

	result := s.db.Delete(&Brand{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete brand: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBrandNotFound
	}

	s.log.WithField("brand_id", id).Info("Brand deleted")

	return nil
}
