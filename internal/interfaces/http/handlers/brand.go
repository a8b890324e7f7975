// internal/interfaces/http/handlers/brand.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// BrandHandler handles brand endpoints
type BrandHandler struct {
	brandService *catalog.BrandService
	config       *config.Config
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *BrandHandler {
	return &BrandHandler{
		brandService: catalog.NewBrandService(db, log),
		config:       cfg,
	}
}

// ListBrands handles GET /brands
func (h *BrandHandler) ListBrands(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"

	brands, err := h.brandService.ListBrands(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve brands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brands retrieved successfully",
		"data":    brands,
	})
}

// GetBrand handles GET /brands/:id
func (h *BrandHandler) GetBrand(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid brand ID",
		})
		return
	}

	brand, err := h.brandService.GetBrand(id)
	if err != nil {
		if errors.Is(err, catalog.ErrBrandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Brand not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve brand",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand retrieved successfully",
		"data":    brand,
	})
}

// CreateBrand handles POST /admin/brands
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var req catalog.BrandCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	brand, err := h.brandService.CreateBrand(&req)
	if err != nil {
		if errors.Is(err, catalog.ErrSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Brand slug already in use",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create brand",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Brand created successfully",
		"data":    brand,
	})
}

// UpdateBrand handles PUT /admin/brands/:id
func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid brand ID",
		})
		return
	}

	var req catalog.BrandUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	brand, err := h.brandService.UpdateBrand(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrBrandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
		case errors.Is(err, catalog.ErrSlugTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Brand slug already in use"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update brand"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand updated successfully",
		"data":    brand,
	})
}

// DeleteBrand handles DELETE /admin/brands/:id
func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid brand ID",
		})
		return
	}

	if err := h.brandService.DeleteBrand(id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrBrandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
		case errors.Is(err, catalog.ErrHasProducts):
			c.JSON(http.StatusConflict, gin.H{"error": "Brand has products and cannot be deleted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete brand"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand deleted successfully",
	})
}
