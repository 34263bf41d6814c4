package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"proximity-analysis-service/internal/adapters/repositories"
	"proximity-analysis-service/internal/platform/db"
)

// dbtool initializes the schema and loads client/provider seed data.
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

	clientSeeds := getEnv("CLIENT_SEED_PATH", "data/seeds/clients.json")
	providerSeeds := getEnv("PROVIDER_SEED_PATH", "data/seeds/providers.json")
	if err := initAndSeed(database, clientSeeds, providerSeeds); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func initAndSeed(database *sql.DB, clientSeeds, providerSeeds string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(database); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Println("Seeding clients...")
	if err := repositories.SeedClientsFromJSON(database, clientSeeds); err != nil {
		return err
	}

	log.Println("Seeding providers...")
	if err := repositories.SeedProvidersFromJSON(database, providerSeeds); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
