package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lionbet-games/poker-backend/config"
	"github.com/lionbet-games/poker-backend/models"
	"github.com/lionbet-games/poker-backend/storage"
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

	store := storage.NewGormStorage(db)

	// Admin account
	if _, err := store.GetUserByUsername("admin"); errors.Is(err, storage.ErrNotFound) {
		admin := models.User{Username: "admin", Balance: 0, IsAdmin: true}
		if err := store.CreateUser(&admin); err != nil {
			log.Fatalf("[FATAL] Failed to seed admin user: %v", err)
		}
		log.Println("Seeded admin user")
	} else if err != nil {
		log.Fatalf("[FATAL] Failed to check admin user: %v", err)
	}

	// Default tables
	tables := []models.Table{
		{Name: "Beginner Table", StakeAmount: 1.00, MaxPlayers: 6},
		{Name: "Intermediate Table", StakeAmount: 5.00, MaxPlayers: 6},
		{Name: "High Rollers", StakeAmount: 10.00, MaxPlayers: 6},
	}
	existing, err := store.ListTables()
	if err != nil {
		log.Fatalf("[FATAL] Failed to list tables: %v", err)
	}
	byName := make(map[string]bool, len(existing))
	for _, t := range existing {
		byName[t.Name] = true
	}
	for i := range tables {
		if byName[tables[i].Name] {
			continue
		}
		if err := store.CreateTable(&tables[i]); err != nil {
			log.Fatalf("[FATAL] Failed to seed table %q: %v", tables[i].Name, err)
		}
		log.Printf("Seeded table %q (stake %.2f)", tables[i].Name, tables[i].StakeAmount)
	}

	// House settings row with the default commission rate
	if _, err := store.GetSettings(); err != nil {
		log.Fatalf("[FATAL] Failed to seed settings: %v", err)
	}

	log.Println("✅ Seed completed")
}
