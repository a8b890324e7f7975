// internal/domain/news/service.go
package news

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/pkg/slugify"
)

// ErrArticleNotFound is returned when no article matches the lookup
var ErrArticleNotFound = errors.New("article not found")

// ErrSlugTaken is returned when another article already uses the slug
var ErrSlugTaken = errors.New("article slug already in use")

// Service handles news article operations
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a new news service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{
		db:  db,
		log: log,
	}
}

// CreateRequest represents article creation data
type CreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
	IsPublished bool   `json:"is_published"`
}

// UpdateRequest represents article update data
type UpdateRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Excerpt     *string `json:"excerpt"`
	Content     *string `json:"content"`
	ImageURL    *string `json:"image_url"`
	IsPublished *bool   `json:"is_published"`
}

// ListRequest represents article list query parameters
type ListRequest struct {
	Page          int  `form:"page,default=1"`
	Limit         int  `form:"limit,default=10"`
	PublishedOnly bool `form:"-"`
}

// Page represents an article listing with pagination info
type Page struct {
	Articles []Article `json:"articles"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
	HasMore  bool      `json:"has_more"`
}

// List retrieves articles newest first
func (s *Service) List(req *ListRequest) (*Page, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 10
	}

	query := s.db.Model(&Article{})
	if req.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	var articles []Article
	err := query.Order("published_at DESC NULLS LAST, created_at DESC").
		Offset(offset).Limit(req.Limit).Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve articles: %w", err)
	}

	return &Page{
		Articles: articles,
		Total:    total,
		Limit:    req.Limit,
		Offset:   offset,
		HasMore:  int64(offset+len(articles)) < total,
	}, nil
}

// Get retrieves an article by ID
func (s *Service) Get(id uint) (*Article, error) {
	var article Article
	if err := s.db.Where("id = ?", id).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to retrieve article: %w", err)
	}
	return &article, nil
}

// GetBySlug retrieves a published article by slug
func (s *Service) GetBySlug(slug string) (*Article, error) {
	var article Article
	err := s.db.Where("slug = ? AND is_published = ?", slug, true).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to retrieve article: %w", err)
	}
	return &article, nil
}

// Create creates a new article
func (s *Service) Create(req *CreateRequest) (*Article, error) {
	slug := slugify.Generate(req.Title)
	if req.Slug != "" {
		slug = slugify.Generate(req.Slug)
	}
	if slug == "" {
		return nil, fmt.Errorf("article title produces an empty slug")
	}

	var count int64
	if err := s.db.Model(&Article{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check article slug: %w", err)
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	article := &Article{
		Title:       req.Title,
		Slug:        slug,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
	}
	if req.IsPublished {
		now := time.Now()
		article.PublishedAt = &now
	}

	if err := s.db.Create(article).Error; err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"article_id": article.ID,
		"slug":       article.Slug,
	}).Info("Article created")

	return article, nil
}

// Update applies a partial update to an article
func (s *Service) Update(id uint, req *UpdateRequest) (*Article, error) {
	article, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Slug != nil {
		if slug := slugify.Generate(*req.Slug); slug != "" && slug != article.Slug {
			var count int64
			if err := s.db.Model(&Article{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("failed to check article slug: %w", err)
			}
			if count > 0 {
				return nil, ErrSlugTaken
			}
			updates["slug"] = slug
		}
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
		if *req.IsPublished && article.PublishedAt == nil {
			updates["published_at"] = time.Now()
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(article).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update article: %w", err)
		}
	}

	return s.Get(id)
}

// Delete removes an article
func (s *Service) Delete(id uint) error {
	result := s.db.Delete(&Article{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete article: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrArticleNotFound
	}

	s.log.WithField("article_id", id).Info("Article deleted")

	return nil
}
