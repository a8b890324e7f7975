// internal/domain/news/entity.go
package news

import (
	"time"

	"gorm.io/gorm"
)

// Article represents a news/blog entry published on the storefront
type Article struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Excerpt     string         `gorm:"size:1000" json:"excerpt"`
	Content     string         `gorm:"type:text" json:"content"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Article) TableName() string { return "news_articles" }
