// internal/interfaces/http/handlers/news.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/news"
)

// NewsHandler handles news article endpoints
type NewsHandler struct {
	newsService *news.Service
	config      *config.Config
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *NewsHandler {
	return &NewsHandler{
		newsService: news.NewService(db, log),
		config:      cfg,
	}
}

// ListArticles handles GET /news (published only) and GET /admin/news (all)
func (h *NewsHandler) ListArticles(publishedOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req news.ListRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid query parameters",
				"details": err.Error(),
			})
			return
		}
		req.PublishedOnly = publishedOnly

		page, err := h.newsService.List(&req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve articles",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Articles retrieved successfully",
			"data":    page,
		})
	}
}

// GetArticleBySlug handles GET /news/:slug
func (h *NewsHandler) GetArticleBySlug(c *gin.Context) {
	article, err := h.newsService.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, news.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Article not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve article",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Article retrieved successfully",
		"data":    article,
	})
}

// GetArticle handles GET /admin/news/:id
func (h *NewsHandler) GetArticle(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid article ID",
		})
		return
	}

	article, err := h.newsService.Get(id)
	if err != nil {
		if errors.Is(err, news.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Article not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve article",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Article retrieved successfully",
		"data":    article,
	})
}

// CreateArticle handles POST /admin/news
func (h *NewsHandler) CreateArticle(c *gin.Context) {
	var req news.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	article, err := h.newsService.Create(&req)
	if err != nil {
		if errors.Is(err, news.ErrSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Article slug already in use",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create article",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Article created successfully",
		"data":    article,
	})
}

// UpdateArticle handles PUT /admin/news/:id
func (h *NewsHandler) UpdateArticle(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid article ID",
		})
		return
	}

	var req news.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	article, err := h.newsService.Update(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, news.ErrArticleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		case errors.Is(err, news.ErrSlugTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Article slug already in use"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Article updated successfully",
		"data":    article,
	})
}

// DeleteArticle handles DELETE /admin/news/:id
func (h *NewsHandler) DeleteArticle(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid article ID",
		})
		return
	}

	if err := h.newsService.Delete(id); err != nil {
		if errors.Is(err, news.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Article deleted successfully",
	})
}
