package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lionbet-games/poker-backend/config"
	"github.com/lionbet-games/poker-backend/controllers"
	"github.com/lionbet-games/poker-backend/routes"
	"github.com/lionbet-games/poker-backend/services"
	"github.com/lionbet-games/poker-backend/storage"
)

// initEnv loads .env file and validates required vars
func initEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}
}

// setupRouter initializes Gin routes and middleware
func setupRouter() *gin.Engine {
	r := gin.Default()

	// Middleware
	r.Use(gin.Recovery())

	// CORS middleware
	allowOrigin := os.Getenv("FRONTEND_ORIGIN")
	if allowOrigin == "" {
		allowOrigin = "http://localhost:3000"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket table endpoint
	r.GET("/ws", services.HandleWebSocket)

	return r
}

func main() {
	// Load env variables
	initEnv()

	// Connect to database
	db := config.SetupDatabase()

	// Wire persistence into the REST and game layers
	store := storage.NewGormStorage(db)
	controllers.Store = store
	services.InitGameService(store, services.NewSolverEvaluator(), quartz.NewReal())

	// Setup Gin router
	router := setupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("🚀 Poker Backend server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
