package main

import (
	"flag"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/meeting-actions/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-actions/pkg/config"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "maximum migrations to apply (0 means all)")
	flag.Parse()

	var dir migrate.MigrationDirection
	switch *direction {
	case "up":
		dir = migrate.Up
	case "down":
		dir = migrate.Down
	default:
		log.Fatalf("Unknown direction %q, expected up or down", *direction)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Printf("🔄 Applying migrations (%s)...", *direction)

	n, err := database.Migrate(db, dir, *steps)
	if err != nil {
		log.Printf("❌ Failed after %d migration(s): %v", n, err)
		os.Exit(1)
	}

	log.Printf("✅ Successfully applied %d migration(s)!", n)
}
