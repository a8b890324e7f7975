// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	redisdb "github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/infrastructure/storage"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires all API routes under the given group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, st *storage.Client, cfg *config.Config, log *logrus.Logger) {
	setupAuthRoutes(rg, db, cfg, log)
	setupCatalogRoutes(rg, db, st, cfg, log)
	setupCartRoutes(rg, db, redisClient, cfg, log)
	setupNewsRoutes(rg, db, cfg, log)
	setupAdminRoutes(rg, db, st, cfg, log)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, log *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, log)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.Profile)
		}
	}
}

// setupCatalogRoutes sets up public storefront catalog routes
func setupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, st *storage.Client, cfg *config.Config, log *logrus.Logger) {
	productHandler := handlers.NewProductHandler(db, cfg, log)
	categoryHandler := handlers.NewCategoryHandler(db, st, cfg, log)
	brandHandler := handlers.NewBrandHandler(db, cfg, log)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/by-path/*path", categoryHandler.GetCategoryByPath)
	}

	brands := rg.Group("/brands")
	{
		brands.GET("", brandHandler.ListBrands)
		brands.GET("/:id", brandHandler.GetBrand)
	}
}

// setupCartRoutes sets up cart routes. Optional auth lets guests and
// authenticated users share the same endpoints.
func setupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config, log *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg, log)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)

		// Migration requires a real user identity
		migrate := cart.Group("")
		migrate.Use(middleware.AuthMiddleware(cfg))
		{
			migrate.POST("/migrate", cartHandler.MigrateCart)
		}
	}
}

// setupNewsRoutes sets up public news routes
func setupNewsRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, log *logrus.Logger) {
	newsHandler := handlers.NewNewsHandler(db, cfg, log)

	newsGroup := rg.Group("/news")
	{
		newsGroup.GET("", newsHandler.ListArticles(true))
		newsGroup.GET("/:slug", newsHandler.GetArticleBySlug)
	}
}

// setupAdminRoutes sets up admin CRUD routes behind auth + admin checks
func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, st *storage.Client, cfg *config.Config, log *logrus.Logger) {
	categoryHandler := handlers.NewCategoryHandler(db, st, cfg, log)
	brandHandler := handlers.NewBrandHandler(db, cfg, log)
	newsHandler := handlers.NewNewsHandler(db, cfg, log)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		categories := admin.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
			categories.POST("/:id/image", categoryHandler.UploadCategoryImage)
		}

		brands := admin.Group("/brands")
		{
			brands.POST("", brandHandler.CreateBrand)
			brands.PUT("/:id", brandHandler.UpdateBrand)
			brands.DELETE("/:id", brandHandler.DeleteBrand)
		}

		newsGroup := admin.Group("/news")
		{
			newsGroup.GET("", newsHandler.ListArticles(false))
			newsGroup.GET("/:id", newsHandler.GetArticle)
			newsGroup.POST("", newsHandler.CreateArticle)
			newsGroup.PUT("/:id", newsHandler.UpdateArticle)
			newsGroup.DELETE("/:id", newsHandler.DeleteArticle)
		}
	}
}
