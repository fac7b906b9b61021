package main

import (
	"flag"
	"fmt"
	"log"

	"knockknock/internal/platform/config"
	"knockknock/internal/platform/database"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	seed := flag.Bool("seed", false, "Seed demo tenants and account mappings after migrating")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.Database); err != nil {
		log.Fatal(err)
	}

	if *seed {
		if err := database.SeedDemoData(db); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	fmt.Println("Migration completed successfully")
}
