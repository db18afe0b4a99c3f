package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/internal/app/controller"
	"github.com/ikkim/emporium-backend/internal/metrics"
	"github.com/ikkim/emporium-backend/internal/middleware"
	"github.com/ikkim/emporium-backend/internal/storage"
	"github.com/ikkim/emporium-backend/internal/validation"
)

type Router struct {
	authController        *controller.AuthController
	shopController        *controller.ShopController
	productController     *controller.ProductController
	cartController        *controller.CartController
	reviewController      *controller.ReviewController
	transactionController *controller.TransactionController
	uploadController      *controller.UploadController
	authMiddleware        *middleware.AuthMiddleware
	metrics               *metrics.HTTPMetrics
	config                *config.Config
	mediaDir              string
}

func NewRouter(
	authController *controller.AuthController,
	shopController *controller.ShopController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	reviewController *controller.ReviewController,
	transactionController *controller.TransactionController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	httpMetrics *metrics.HTTPMetrics,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:        authController,
		shopController:        shopController,
		productController:     productController,
		cartController:        cartController,
		reviewController:      reviewController,
		transactionController: transactionController,
		uploadController:      uploadController,
		authMiddleware:        authMiddleware,
		metrics:               httpMetrics,
		config:                cfg,
	}
}

// ServeMedia exposes files written by the local storage strategy under /media
func (r *Router) ServeMedia(dir string) *Router {
	r.mediaDir = dir
	return r
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	validation.RegisterTagNames()

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))
	if r.metrics != nil {
		router.Use(r.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Emporium API is running",
		})
	})

	if r.mediaDir != "" {
		router.Static(storage.MediaPath, r.mediaDir)
	}

	gate := r.authMiddleware.Gate
	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("", gate(middleware.ResourceUser), r.authController.Register)
			user.POST("/token", gate(middleware.ResourceUser), r.authController.Login)
			user.POST("/logout", gate(middleware.ResourceUserMe), r.authController.Logout)
			user.GET("/me", gate(middleware.ResourceUserMe), r.authController.GetMe)
			user.PATCH("/me", gate(middleware.ResourceUserMe), r.authController.UpdateMe)
		}

		shops := api.Group("/shop")
		shops.Use(gate(middleware.ResourceShop))
		{
			shops.GET("", r.shopController.ListShops)
			shops.POST("/create", r.shopController.CreateShop)
			shops.GET("/:id", r.shopController.GetShop)
			shops.DELETE("/:id", r.shopController.DeleteShop)
		}

		products := api.Group("/product")
		products.Use(gate(middleware.ResourceProduct))
		{
			products.GET("", r.productController.ListProducts)
			products.POST("", r.productController.CreateProduct)
			products.GET("/:id", r.productController.GetProduct)
			products.PATCH("/:id", r.productController.UpdateProduct)
			products.DELETE("/:id", r.productController.DeleteProduct)
		}

		cart := api.Group("/cart")
		cart.Use(gate(middleware.ResourceCart))
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.GET("/:id", r.cartController.GetCartItem)
			cart.PATCH("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
		}

		reviews := api.Group("/review")
		reviews.Use(gate(middleware.ResourceReview))
		{
			reviews.GET("", r.reviewController.ListReviews)
			reviews.POST("", r.reviewController.CreateReview)
		}

		transactions := api.Group("/transaction")
		transactions.Use(gate(middleware.ResourceTransaction))
		{
			transactions.GET("", r.transactionController.ListTransactions)
			transactions.POST("", r.transactionController.Purchase)
		}

		media := api.Group("/media")
		media.Use(gate(middleware.ResourceMedia))
		{
			media.POST("/upload", r.uploadController.PrepareUpload)
			media.POST("/upload/local", r.uploadController.UploadLocal)
		}
	}

	return router
}
