package main

import (
	"delivery-tracking-service/internal/adapters/repositories"
	"delivery-tracking-service/internal/platform/db"
	"flag"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool initializes the schema and optionally seeds demo deliveries.
// Intended for local runs and CI, not production migration management.
func main() {
	seedPath := flag.String("seed", "", "seed deliveries from a JSON file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *seedPath != "" {
		log.Println("Seeding database...")
		if err := repositories.SeedFromJSON(pool, *seedPath); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		log.Println("Seeding complete.")
	}
}
