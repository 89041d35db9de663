package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/friendsnet/backend/internal/config"
	"github.com/friendsnet/backend/internal/database"
	"github.com/friendsnet/backend/internal/logger"
	"github.com/friendsnet/backend/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()
	if err := logger.Initialize(cfg.LogLevel, "seed.log"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := database.Initialize(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Close(ctx)
	}()

	ctx := context.Background()
	seeder := seed.NewSeeder(database.DB())

	var err error
	switch command {
	case "dev":
		log.Println("Seeding development database...")
		err = seeder.SeedDev(ctx)
	case "test":
		log.Println("Seeding test database...")
		err = seeder.SeedTest(ctx)
	case "clean":
		log.Println("Removing seed data...")
		err = seeder.Clean(ctx)
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  test  - Seed test database with minimal data")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Done")
}
