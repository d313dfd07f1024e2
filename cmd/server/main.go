package main

import (
	"log"
	"net/http"

	"storefront-gateway/internal/cache"
	"storefront-gateway/internal/config"
	"storefront-gateway/internal/coupon"
	"storefront-gateway/internal/database"
	"storefront-gateway/internal/handlers"
	"storefront-gateway/internal/middleware"
	"storefront-gateway/internal/pricing"
	"storefront-gateway/internal/upstream"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Initialize session store
	middleware.InitSessionStore(cfg.SessionSecret)

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.SessionMiddleware())
	r.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))

	// Coupon/settings reads go through Redis when configured
	var couponCache cache.Cache = cache.Disabled{}
	if cfg.RedisAddr != "" {
		couponCache = cache.NewRedisCache(cfg.RedisAddr, "storefront-gateway")
		log.Printf("Cache: using Redis at %s", cfg.RedisAddr)
	}

	backend := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, couponCache, cfg.CacheTTL)
	cartQueries := database.NewCartQueries(db)
	couponService := coupon.NewService(backend, cartQueries)
	enricher := pricing.NewEnricher(backend)

	// Initialize handlers
	cartHandler := handlers.NewCartHandler(db, backend)
	couponHandler := handlers.NewCouponHandler(db, couponService, backend)
	catalogHandler := handlers.NewCatalogHandler(backend, enricher)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog routes
	public := r.Group("/api")
	{
		public.GET("/products", catalogHandler.GetProducts)
	}

	// Cart routes (public but require session)
	cartRoutes := r.Group("/api/cart")
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.POST("/add", cartHandler.AddToCart)
		cartRoutes.PUT("/update/:id", cartHandler.UpdateCartItem)
		cartRoutes.DELETE("/remove/:id", cartHandler.RemoveFromCart)
		cartRoutes.POST("/clear", cartHandler.ClearCart)
		cartRoutes.GET("/count", cartHandler.GetCartCount)

		cartRoutes.POST("/coupons/auto-apply", couponHandler.AutoApply)
		cartRoutes.POST("/coupons/revalidate", couponHandler.Revalidate)
		cartRoutes.POST("/coupons/apply", couponHandler.Apply)
		cartRoutes.DELETE("/coupons/:code", couponHandler.Remove)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
