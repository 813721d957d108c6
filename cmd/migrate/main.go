// Command migrate runs database migrations.
package main

import (
	"flag"
	"log"

	"leadflow-service/internal/config"
	"leadflow-service/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	action := flag.String("action", "up", "Migration action: up, down, version")
	path := flag.String("path", "migrations", "Path to migration files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system env vars")
	}
	cfg := config.Load()

	switch *action {
	case "up":
		log.Println("running migrations...")
		if err := db.RunMigrations(cfg.DatabaseURL, *path); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		log.Println("migrations completed successfully")

	case "down":
		log.Println("rolling back last migration...")
		if err := db.RollbackMigrations(cfg.DatabaseURL, *path); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		log.Println("migration rolled back successfully")

	case "version":
		version, dirty, err := db.MigrationVersion(cfg.DatabaseURL, *path)
		if err != nil {
			log.Fatalf("failed to read version: %v", err)
		}
		log.Printf("current migration version: %d (dirty: %v)", version, dirty)

	default:
		log.Fatalf("unknown action: %s", *action)
	}
}
