// internal/interfaces/http/handlers/category.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/infrastructure/storage"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService *catalog.CategoryService
	storage         *storage.Client
	config          *config.Config
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(db *gorm.DB, st *storage.Client, cfg *config.Config, log *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: catalog.NewCategoryService(db, log),
		storage:         st,
		config:          cfg,
	}
}

// ListCategories handles GET /categories and GET /admin/categories.
// With flat=true the response is a paginated flat list; otherwise the
// full tree is returned.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var req catalog.CategoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	page, tree, err := h.categoryService.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve categories",
		})
		return
	}

	if req.Flat {
		c.JSON(http.StatusOK, gin.H{
			"message": "Categories retrieved successfully",
			"data":    page,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data": gin.H{
			"tree": tree,
		},
	})
}

// GetCategory handles GET /admin/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid category ID",
		})
		return
	}

	category, err := h.categoryService.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve category",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category retrieved successfully",
		"data":    category,
	})
}

// GetCategoryByPath handles GET /categories/by-path/*path for storefront
// navigation. The parameter is the full materialized path, e.g.
// /categories/by-path/datchiki-dyma/adresnye.
func (h *CategoryHandler) GetCategoryByPath(c *gin.Context) {
	path := strings.Trim(c.Param("path"), "/")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Category path required",
		})
		return
	}

	category, err := h.categoryService.GetByPath(path)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve category",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category retrieved successfully",
		"data":    category,
	})
}

// CreateCategory handles POST /admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req catalog.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		h.writeCategoryError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created successfully",
		"data":    category,
	})
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid category ID",
		})
		return
	}

	var req catalog.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	category, err := h.categoryService.Update(id, &req)
	if err != nil {
		h.writeCategoryError(c, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category updated successfully",
		"data":    category,
	})
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid category ID",
		})
		return
	}

	if err := h.categoryService.Delete(id); err != nil {
		h.writeCategoryError(c, err, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}

// UploadCategoryImage handles POST /admin/categories/:id/image. The image is
// stored in object storage and the category's image_url is updated to the
// public URL.
func (h *CategoryHandler) UploadCategoryImage(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Object storage is not configured",
		})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid category ID",
		})
		return
	}

	if _, err := h.categoryService.Get(id); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve category",
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Image file required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read image file",
		})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "File must be an image",
		})
		return
	}

	key := fmt.Sprintf("categories/%d/%s%s", id, uuid.New().String(), filepath.Ext(fileHeader.Filename))
	if err := h.storage.Upload(c.Request.Context(), key, contentType, file, fileHeader.Size); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to upload image",
		})
		return
	}

	imageURL := h.storage.FileURL(key)
	category, err := h.categoryService.Update(id, &catalog.CategoryUpdateRequest{
		ImageURL: &imageURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save image URL",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category image uploaded successfully",
		"data":    category,
	})
}

// writeCategoryError maps category service errors to HTTP responses
func (h *CategoryHandler) writeCategoryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case errors.Is(err, catalog.ErrParentNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category not found"})
	case errors.Is(err, catalog.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already in use among siblings"})
	case errors.Is(err, catalog.ErrCircularParent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category cannot be its own ancestor"})
	case errors.Is(err, catalog.ErrHasChildren):
		c.JSON(http.StatusConflict, gin.H{"error": "Category has subcategories and cannot be deleted"})
	case errors.Is(err, catalog.ErrHasProducts):
		c.JSON(http.StatusConflict, gin.H{"error": "Category has products and cannot be deleted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// parseIDParam parses the :id route parameter
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
