package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/adapters/repositories"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/config"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	database, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	orderSeedPath := config.Get("ORDER_SEED_PATH", "data/seeds/orders.json")
	dispatcherSeedPath := config.Get("DISPATCHER_SEED_PATH", "data/seeds/dispatchers.json")

	initAndSeed(database, orderSeedPath, dispatcherSeedPath)
}

func initAndSeed(database *sql.DB, orderSeedPath, dispatcherSeedPath string) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(database); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedDispatchersFromJSON(database, dispatcherSeedPath); err != nil {
		log.Fatalf("dispatcher seeding failed: %v", err)
	}
	if err := repositories.SeedOrdersFromJSON(database, orderSeedPath); err != nil {
		log.Fatalf("order seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
