// internal/domain/catalog/category_service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/slugify"
	"gorm.io/gorm"
)

// CategoryService handles category tree business logic
type CategoryService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, log *logrus.Logger) *CategoryService {
	return &CategoryService{
		db:  db,
		log: log,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name            string `json:"name" binding:"required"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	ParentID        *uint  `json:"parent_id"`
	SortOrder       int    `json:"sort_order"`
	IsActive        bool   `json:"is_active"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
}

// CategoryUpdateRequest represents category update data. Nil fields are left
// untouched. MakeRoot moves the category to root level and wins over ParentID.
type CategoryUpdateRequest struct {
	Name            *string `json:"name"`
	Slug            *string `json:"slug"`
	Description     *string `json:"description"`
	ImageURL        *string `json:"image_url"`
	ParentID        *uint   `json:"parent_id"`
	MakeRoot        bool    `json:"make_root"`
	SortOrder       *int    `json:"sort_order"`
	IsActive        *bool   `json:"is_active"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
	MetaKeywords    *string `json:"meta_keywords"`
}

// CategoryListRequest represents category list query parameters
type CategoryListRequest struct {
	Search    string `form:"search"`
	IsActive  *bool  `form:"is_active"`
	ParentID  *uint  `form:"parent_id"`
	RootsOnly bool   `form:"roots_only"`
	Flat      bool   `form:"flat"`
	Limit     int    `form:"limit,default=50"`
	Offset    int    `form:"offset,default=0"`
}

// CategoryNode is a category with its resolved children, used for tree reads
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// CategoryPage represents a flat category listing with pagination info
type CategoryPage struct {
	Categories []Category `json:"categories"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	Total      int64      `json:"total"`
	HasMore    bool       `json:"has_more"`
}

// Create creates a new category. When the slug is omitted it is derived from
// the name. Level and path are computed from the chosen parent.
func (s *CategoryService) Create(req *CategoryCreateRequest) (*Category, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = slugify.Generate(req.Name)
	}
	if slug == "" {
		return nil, fmt.Errorf("cannot derive slug from name %q", req.Name)
	}

	level := 0
	path := slug

	if req.ParentID != nil {
		parent, err := s.fetchParent(*req.ParentID)
		if err != nil {
			return nil, err
		}
		level = parent.Level + 1
		path = parent.Path + "/" + slug
	}

	if err := s.checkSiblingSlug(slug, req.ParentID, 0); err != nil {
		return nil, err
	}

	category := Category{
		Name:            req.Name,
		Slug:            slug,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		ParentID:        req.ParentID,
		Level:           level,
		Path:            path,
		SortOrder:       req.SortOrder,
		IsActive:        req.IsActive,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.db.Preload("Parent").First(&category, category.ID)

	return &category, nil
}

// Update merges the provided fields into an existing category. When the slug
// or the parent changes, level and path are recomputed and the new path is
// propagated to every transitive descendant.
func (s *CategoryService) Update(id uint, req *CategoryUpdateRequest) (*Category, error) {
	var category Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	newSlug := category.Slug
	if req.Slug != nil {
		if derived := slugify.Generate(*req.Slug); derived != "" {
			newSlug = derived
		}
	}
	slugChanged := newSlug != category.Slug

	newParentID := category.ParentID
	parentChanged := false
	switch {
	case req.MakeRoot:
		parentChanged = category.ParentID != nil
		newParentID = nil
	case req.ParentID != nil:
		if *req.ParentID == id {
			return nil, ErrCircularParent
		}
		if category.ParentID == nil || *category.ParentID != *req.ParentID {
			parentChanged = true
			newParentID = req.ParentID
		}
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.MetaTitle != nil {
		updates["meta_title"] = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		updates["meta_description"] = *req.MetaDescription
	}
	if req.MetaKeywords != nil {
		updates["meta_keywords"] = *req.MetaKeywords
	}

	recompute := slugChanged || parentChanged
	var newPath string
	var newLevel int

	if recompute {
		if newParentID != nil {
			if s.isCircularReference(id, *newParentID) {
				return nil, ErrCircularParent
			}
			parent, err := s.fetchParent(*newParentID)
			if err != nil {
				return nil, err
			}
			newLevel = parent.Level + 1
			newPath = parent.Path + "/" + newSlug
		} else {
			newLevel = 0
			newPath = newSlug
		}

		if err := s.checkSiblingSlug(newSlug, newParentID, id); err != nil {
			return nil, err
		}

		updates["slug"] = newSlug
		updates["parent_id"] = newParentID
		updates["level"] = newLevel
		updates["path"] = newPath
	}

	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}

	// Cascade runs off the node's effective path, regardless of whether the
	// slug or the parent triggered the recomputation.
	if recompute {
		s.log.WithFields(logrus.Fields{
			"category_id": id,
			"path":        newPath,
			"level":       newLevel,
		}).Info("propagating category path to descendants")

		if err := s.propagatePath(id, newPath, newLevel); err != nil {
			return nil, err
		}
	}

	if err := s.db.Preload("Parent").First(&category, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload category: %w", err)
	}

	return &category, nil
}

// Delete removes a category. Categories with subcategories or with products
// referencing them cannot be deleted; the delete fails instead of cascading.
func (s *CategoryService) Delete(id uint) error {
	var childCount int64
	if err := s.db.Model(&Category{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
		return fmt.Errorf("failed to count subcategories: %w", err)
	}
	if childCount > 0 {
		return ErrHasChildren
	}

	var productCount int64
	if err := s.db.Model(&Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		return ErrHasProducts
	}

	result := s.db.Where("id = ?", id).Delete(&Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// List retrieves categories either as a flat page or as a nested tree.
func (s *CategoryService) List(req *CategoryListRequest) (*CategoryPage, []*CategoryNode, error) {
	query := s.applyListFilters(s.db.Model(&Category{}), req)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count categories: %w", err)
	}

	// Deterministic ordering keeps pagination stable across requests.
	query = query.Order("level ASC, sort_order ASC, name ASC")

	if req.Flat {
		var categories []Category
		if err := query.Preload("Parent").Offset(req.Offset).Limit(req.Limit).Find(&categories).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to list categories: %w", err)
		}

		page := &CategoryPage{
			Categories: categories,
			Limit:      req.Limit,
			Offset:     req.Offset,
			Total:      total,
			HasMore:    total > int64(req.Offset+req.Limit),
		}
		return page, nil, nil
	}

	var categories []Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return nil, buildTree(categories), nil
}

// Get retrieves a single category by ID with its parent and direct children
func (s *CategoryService) Get(id uint) (*Category, error) {
	var category Category
	err := s.db.
		Preload("Parent").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, name ASC")
		}).
		Where("id = ?", id).
		First(&category).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	return &category, nil
}

// GetByPath retrieves a single active category by its materialized path
func (s *CategoryService) GetByPath(path string) (*Category, error) {
	var category Category
	err := s.db.
		Preload("Parent").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order ASC, name ASC")
		}).
		Where("path = ? AND is_active = ?", path, true).
		First(&category).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	return &category, nil
}

// propagatePath rewrites path and level for every descendant of categoryID,
// walking down one level per call. The walk aborts on the first failure so a
// partial cascade is reported, not hidden.
func (s *CategoryService) propagatePath(categoryID uint, parentPath string, parentLevel int) error {
	var children []Category
	if err := s.db.Select("id", "slug").Where("parent_id = ?", categoryID).Find(&children).Error; err != nil {
		return fmt.Errorf("failed to fetch children of category %d: %w", categoryID, err)
	}

	for _, child := range children {
		childPath := parentPath + "/" + child.Slug
		childLevel := parentLevel + 1

		err := s.db.Model(&Category{}).
			Where("id = ?", child.ID).
			Updates(map[string]interface{}{"path": childPath, "level": childLevel}).Error
		if err != nil {
			return fmt.Errorf("failed to update path of category %d: %w", child.ID, err)
		}

		if err := s.propagatePath(child.ID, childPath, childLevel); err != nil {
			return err
		}
	}

	return nil
}

// buildTree assembles parent->children adjacency in memory and returns the
// root nodes. A node whose parent is missing from the result set is promoted
// to root instead of being dropped.
func buildTree(categories []Category) []*CategoryNode {
	nodes := make(map[uint]*CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryNode{
			Category: categories[i],
			Children: []*CategoryNode{},
		}
	}

	roots := make([]*CategoryNode, 0)
	for i := range categories {
		node := nodes[categories[i].ID]
		if categories[i].ParentID != nil {
			if parent, ok := nodes[*categories[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}

func (s *CategoryService) applyListFilters(query *gorm.DB, req *CategoryListRequest) *gorm.DB {
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}
	if req.RootsOnly {
		query = query.Where("parent_id IS NULL")
	} else if req.ParentID != nil {
		query = query.Where("parent_id = ?", *req.ParentID)
	}
	return query
}

func (s *CategoryService) fetchParent(parentID uint) (*Category, error) {
	var parent Category
	if err := s.db.Select("id", "level", "path").Where("id = ?", parentID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to fetch parent category: %w", err)
	}
	return &parent, nil
}

// checkSiblingSlug enforces slug uniqueness among siblings. excludeID skips
// the category being updated.
func (s *CategoryService) checkSiblingSlug(slug string, parentID *uint, excludeID uint) error {
	query := s.db.Model(&Category{}).Where("slug = ?", slug)
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

// isCircularReference reports whether making parentID the parent of
// categoryID would create a cycle
func (s *CategoryService) isCircularReference(categoryID, parentID uint) bool {
	currentID := parentID

	for {
		var category Category
		if err := s.db.Select("parent_id").Where("id = ?", currentID).First(&category).Error; err != nil {
			return false
		}
		if category.ParentID == nil {
			return false
		}
		if *category.ParentID == categoryID {
			return true
		}
		currentID = *category.ParentID
	}
}
