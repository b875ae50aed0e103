package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"nutrilog/database"
	"nutrilog/internal/cache"
	"nutrilog/internal/controllers"
	"nutrilog/internal/repository"
	"nutrilog/internal/services"
	"nutrilog/internal/vision"
	"nutrilog/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load("../.env"); err != nil {
		log.Println("No .env file found, using environment")
	}

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	database.MonitorDBConnections()

	userRepo := repository.NewUserRepository(database.DB)
	foodLogRepo := repository.NewFoodLogRepository(database.DB)

	// The vision collaborator is optional: without an API key photo
	// analysis fails with a user-visible message while manual entry
	// keeps working.
	var analyzer vision.Analyzer
	if client, err := vision.NewClient(); err != nil {
		log.Printf("Warning: vision client not configured: %v", err)
		analyzer = vision.UnconfiguredAnalyzer{}
	} else {
		analyzer = client
	}

	// Redis caches analysis results by image digest. It is a best-effort
	// optimization; the app runs without it.
	var analysisCache services.AnalysisCache
	redisClient, err := cache.NewRedisClient()
	if err != nil {
		log.Printf("Warning: Redis unavailable, analysis caching disabled: %v", err)
	} else {
		analysisCache = redisClient
		defer redisClient.Close()
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}

	profileService := services.NewProfileService(userRepo)
	foodLogService := services.NewFoodLogService(foodLogRepo, analyzer, analysisCache, uploadsDir)

	oauthController := controllers.NewOauthController(userRepo)
	onboardingController := controllers.NewOnboardingController(userRepo, profileService)
	profileController := controllers.NewProfileController(userRepo, foodLogRepo, profileService)
	foodLogController := controllers.NewFoodLogController(userRepo, foodLogRepo, foodLogService)
	dashboardController := controllers.NewDashboardController(userRepo, foodLogRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Nutrilog API is running",
			"version": "1.0.0",
			"status":  "healthy",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		health := gin.H{"status": "healthy"}
		if redisClient != nil {
			if status, err := redisClient.GetStatus(); err != nil {
				health["redis"] = gin.H{"connected": false, "error": err.Error()}
			} else {
				health["redis"] = status
			}
		} else {
			health["redis"] = gin.H{"connected": false}
		}
		c.JSON(200, health)
	})

	router.Static("/uploads", uploadsDir)

	routes.RegisterOauthRoutes(router, oauthController)
	routes.RegisterOnboardingRoutes(router, onboardingController)
	routes.RegisterProfileRoutes(router, profileController)
	routes.RegisterFoodLogRoutes(router, foodLogController)
	routes.RegisterDashboardRoutes(router, dashboardController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Server starting on port %s", port)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
