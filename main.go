package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureBrandIndexes(db); err != nil {
		log.Printf("brand index warning: %v", err)
	}
	if err := database.EnsureBannerIndexes(db); err != nil {
		log.Printf("banner index warning: %v", err)
	}
	if err := database.EnsureCurrencyRateIndexes(db); err != nil {
		log.Printf("currency rate index warning: %v", err)
	}

	handlers.RegisterValidations()

	banners := store.NewMongoBannerStore(db)

	r := gin.Default()
	r.Static("/public", config.AppEnv.PublicRootDir)

	api := r.Group("/api/v1")
	{
		api.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

		api.GET("/products", handlers.GetProducts(db))
		api.GET("/products/featured", handlers.GetFeaturedProducts(db))
		api.GET("/products/:id", handlers.GetProduct(db))
		api.GET("/categories", handlers.GetCategories(db, false))
		api.GET("/brands", handlers.GetBrands(db))
		api.GET("/banners", handlers.GetActiveBanners(banners))
		api.GET("/sliders", handlers.GetSliders(db))
		api.GET("/configuration", handlers.GetConfiguration(db))
		api.POST("/orders", handlers.CreateOrder(db))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/categories", handlers.GetCategories(db, true))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.POST("/brands", handlers.CreateBrand(db))
		admin.PUT("/brands/:id", handlers.UpdateBrand(db))
		admin.DELETE("/brands/:id", handlers.DeleteBrand(db))

		admin.GET("/banners", handlers.GetAllBanners(banners))
		admin.POST("/banners", handlers.CreateBanner(banners))
		admin.PUT("/banners/:id", handlers.UpdateBanner(banners))
		admin.PATCH("/banners/:id/toggle", handlers.ToggleBanner(banners))
		admin.DELETE("/banners/:id", handlers.DeleteBanner(banners))

		admin.GET("/sliders", handlers.GetAllSliders(db))
		admin.POST("/sliders", handlers.CreateSlider(db))
		admin.PUT("/sliders/:id", handlers.UpdateSlider(db))
		admin.DELETE("/sliders/:id", handlers.DeleteSlider(db))

		admin.PUT("/configuration/units", handlers.UpdateUnits(db))
		admin.PUT("/configuration/default-currency", handlers.SetDefaultCurrency(db))
		admin.POST("/configuration/currency-rates", handlers.CreateCurrencyRate(db))
		admin.PUT("/configuration/currency-rates/:id", handlers.UpdateCurrencyRate(db))
		admin.DELETE("/configuration/currency-rates/:id", handlers.DeleteCurrencyRate(db))

		admin.POST("/upload/brand", handlers.UploadBrandLogo())
		admin.POST("/upload/product", handlers.UploadProductImage())

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
