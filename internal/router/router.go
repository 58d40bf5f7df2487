// internal/router/router.go
package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-admin/internal/config"
	"github.com/javajoker/inventory-admin/internal/handlers"
	"github.com/javajoker/inventory-admin/internal/middleware"
	"github.com/javajoker/inventory-admin/internal/models"
	"github.com/javajoker/inventory-admin/internal/services"
	"github.com/javajoker/inventory-admin/internal/utils"
)

// Initialize wires services and handlers. rdb may be nil, which disables the dashboard cache.
func Initialize(db *gorm.DB, cfg *config.Config, rdb *redis.Client) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	dashboardCache := services.NewDashboardCache(rdb, time.Duration(cfg.Dashboard.CacheTTL)*time.Second)
	mediaService := services.NewMediaService(db, storageService)

	itemService := services.NewItemService(db, dashboardCache)
	productTypeService := services.NewProductTypeService(db, mediaService, dashboardCache, cfg.Storage.MaxImageSize)
	dashboardService := services.NewDashboardService(itemService, productTypeService, dashboardCache)

	// Initialize handlers
	itemHandler := handlers.NewItemHandler(itemService)
	productTypeHandler := handlers.NewProductTypeHandler(productTypeService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxImageSize

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	rateLimit := cfg.Server.RateLimit
	if rateLimit.Enabled {
		r.Use(middleware.GeneralRateLimit(rateLimit.RequestsPerSecond, rateLimit.Burst))
	}

	// Health check
	r.GET("/health", handlers.HealthCheck)

	// Local disk objects
	if storageService.Disk() == models.DiskLocal {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	api := r.Group("/")
	api.Use(middleware.AuthRequired())
	{
		api.GET("/dashboard", dashboardHandler.GetDashboard)

		items := api.Group("/items")
		{
			items.GET("", itemHandler.GetItems)
			items.POST("", itemHandler.CreateItems)
			items.PUT("/:id", itemHandler.UpdateItem)
			items.DELETE("/:id", itemHandler.DeleteItem)
			items.POST("/:id/toggle-sold", itemHandler.ToggleSold)
		}

		productTypes := api.Group("/product-types")
		{
			productTypes.GET("", productTypeHandler.GetProductTypes)
			productTypes.DELETE("/:id", productTypeHandler.DeleteProductType)

			uploads := productTypes.Group("")
			if rateLimit.Enabled {
				uploads.Use(middleware.UploadRateLimit(rateLimit.UploadsPerMinute))
			}
			uploads.POST("", productTypeHandler.CreateProductType)
			uploads.PUT("/:id", productTypeHandler.UpdateProductType)
		}
	}

	return r, nil
}
