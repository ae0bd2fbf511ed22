// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopkit/storefront-backend/internal/config"
	"github.com/shopkit/storefront-backend/internal/handlers"
	"github.com/shopkit/storefront-backend/internal/middleware"
	"github.com/shopkit/storefront-backend/internal/services"
	"github.com/shopkit/storefront-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	aiClient := services.NewGenAIClient(cfg.AI)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	orderService := services.NewOrderService(db)
	assistantService := services.NewAssistantService(db, aiClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	orderHandler := handlers.NewOrderHandler(orderService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.ClientOrigin))
	r.Use(middleware.GeneralRateLimit())

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "API is healthy",
			})
		})

		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Product routes (all require authentication, writes require admin)
		products := api.Group("/products")
		products.Use(middleware.AuthRequired())
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/categories", productHandler.GetCategories)
			products.GET("/:id", productHandler.GetProduct)

			admin := products.Group("")
			admin.Use(middleware.AdminRequired())
			{
				admin.POST("", productHandler.CreateProduct)
				admin.PUT("/:id", productHandler.UpdateProduct)
				admin.DELETE("/:id", productHandler.DeleteProduct)
				admin.POST("/upload-image", productHandler.UploadImage)
			}
		}

		// Order routes
		orders := api.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.Create)
			orders.GET("/my-orders", orderHandler.GetMyOrders)
			orders.GET("/admin/all", middleware.AdminRequired(), orderHandler.GetAll)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", middleware.AdminRequired(), orderHandler.UpdateStatus)
		}

		// AI assistant routes
		ai := api.Group("/ai")
		ai.Use(middleware.AuthRequired())
		{
			ai.POST("/ask", assistantHandler.Ask)
		}
	}

	// 404 handler for unmatched routes
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	})

	return r
}
