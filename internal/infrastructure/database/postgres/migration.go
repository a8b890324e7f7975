// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/news"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:  db,
		cfg: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order: categories and brands before products
	models := []interface{}{
		&user.User{},

		&catalog.Category{},
		&catalog.Brand{},
		&catalog.Product{},
		&catalog.ProductVariant{},

		&cart.Cart{},

		&news.Article{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_categories_parent_active ON categories(parent_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_categories_path ON categories(path)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_sibling_slug ON categories(slug, COALESCE(parent_id, 0)) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_categories_level_sort ON categories(level, sort_order)",

		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_brand_active ON products(brand_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",

		"CREATE INDEX IF NOT EXISTS idx_product_variants_product_active ON product_variants(product_id, is_active)",

		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user ON carts(user_id) WHERE user_id IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_session ON carts(session_id) WHERE session_id IS NOT NULL",

		"CREATE INDEX IF NOT EXISTS idx_news_published ON news_articles(is_published, published_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("Created %d indexes (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("Initial data seeded")
	return nil
}

// seedCategories creates the default category tree. Level and Path follow the
// same denormalization rules the category service maintains.
func (m *Migration) seedCategories() error {
	roots := []catalog.Category{
		{
			Name:        "Видеонаблюдение",
			Slug:        "videonablyudenie",
			Description: "Камеры, регистраторы и комплекты видеонаблюдения",
			Level:       0,
			Path:        "videonablyudenie",
			SortOrder:   1,
			IsActive:    true,
		},
		{
			Name:        "Датчики дыма",
			Slug:        "datchiki-dyma",
			Description: "Дымовые извещатели для пожарной сигнализации",
			Level:       0,
			Path:        "datchiki-dyma",
			SortOrder:   2,
			IsActive:    true,
		},
		{
			Name:        "Контроль доступа",
			Slug:        "kontrol-dostupa",
			Description: "Домофоны, считыватели и замки",
			Level:       0,
			Path:        "kontrol-dostupa",
			SortOrder:   3,
			IsActive:    true,
		},
	}

	for _, category := range roots {
		var existing catalog.Category
		result := m.db.Where("slug = ? AND parent_id IS NULL", category.Slug).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// seedAdminUser creates the default admin account when none exists
func (m *Migration) seedAdminUser() error {
	var count int64
	if err := m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	pm := auth.NewPasswordManager(m.cfg)
	hashed, err := pm.HashPassword(m.cfg.Security.AdminPassword)
	if err != nil {
		return err
	}

	admin := user.User{
		Email:     m.cfg.Security.AdminEmail,
		Password:  hashed,
		FirstName: "Admin",
		IsActive:  true,
		IsAdmin:   true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", admin.Email)
	return nil
}
