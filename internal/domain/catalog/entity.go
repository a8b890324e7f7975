// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a node in the product category tree. Level and Path are
// denormalized from the parent chain: Level is the depth from the root
// (root = 0) and Path is the slash-joined slug chain from the root down to
// this node. Both are maintained on every create/update and cascaded to
// descendants when the slug or parent changes.
type Category struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null;size:255" json:"name"`
	Slug            string         `gorm:"not null;size:255;index" json:"slug"`
	Description     string         `gorm:"size:1000" json:"description"`
	ImageURL        string         `gorm:"size:500" json:"image_url"`
	ParentID        *uint          `gorm:"index" json:"parent_id"`
	Level           int            `gorm:"not null;default:0;index" json:"level"`
	Path            string         `gorm:"not null;size:1000;index" json:"path"`
	SortOrder       int            `gorm:"default:0" json:"sort_order"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	MetaTitle       string         `gorm:"size:255" json:"meta_title"`
	MetaDescription string         `gorm:"size:500" json:"meta_description"`
	MetaKeywords    string         `gorm:"size:500" json:"meta_keywords"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Products []Product  `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product represents a purchasable catalog entry
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SKU         string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"` // Price in minor currency units
	Thumbnail   string         `gorm:"size:500" json:"thumbnail"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	BrandID     *uint          `gorm:"index" json:"brand_id"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category Category         `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Brand    *Brand           `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"brand,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// ProductVariant represents a sellable variation of a product. Price overrides
// the product price when non-zero.
type ProductVariant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	SKU       string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Price     int64          `json:"price"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Brand represents a product manufacturer
type Brand struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:1000" json:"description"`
	LogoURL     string         `gorm:"size:500" json:"logo_url"`
	Website     string         `gorm:"size:255" json:"website"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:BrandID" json:"products,omitempty"`
}

// TableName overrides
func (Category) TableName() string       { return "categories" }
func (Product) TableName() string        { return "products" }
func (ProductVariant) TableName() string { return "product_variants" }
func (Brand) TableName() string          { return "brands" }
