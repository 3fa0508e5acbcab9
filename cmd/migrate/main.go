package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lionbet-games/poker-backend/config"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[FATAL] DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to database: %v", err)
	}

	if err := config.Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}
	log.Println("✅ Database migration completed")
}
