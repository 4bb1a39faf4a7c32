package main

import (
	"log"
	"time"

	"github.com/oggyb/swipe-core/internal/config"
	"github.com/oggyb/swipe-core/internal/db"
)

func main() {
	// Load configuration
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedTestData(database, time.Now().UTC()); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
