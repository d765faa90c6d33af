package main

// Load a catalog JSON file into the database:
//   go run ./cmd/seed -file courses.json

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"courses-backend/internal/catalog"
	"courses-backend/internal/config"
	"courses-backend/internal/shared/storage/db"
)

func main() {
	file := flag.String("file", "courses.json", "catalog JSON file, an array of course objects")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Printf("failed to read %s: %v", *file, err)
		os.Exit(1)
	}

	var courses []catalog.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		log.Printf("failed to parse %s: %v", *file, err)
		os.Exit(1)
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}

	repo := &catalog.PGRepo{DB: sqlDB}
	var inserted, skipped int
	for _, course := range courses {
		if err := course.Validate(); err != nil {
			log.Printf("skipping %s: %v", course.CourseID, err)
			skipped++
			continue
		}
		if err := repo.Insert(ctx, course); err != nil {
			log.Printf("insert %s failed: %v", course.CourseID, err)
			skipped++
			continue
		}
		inserted++
	}

	log.Printf("done: %d inserted, %d skipped", inserted, skipped)
	if skipped > 0 {
		os.Exit(1)
	}
}
