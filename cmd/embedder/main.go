package main

// Backfill embeddings for catalog rows that are missing one:
//   go run ./cmd/embedder

import (
	"context"
	"log"
	"os"
	"time"

	"courses-backend/internal/catalog"
	"courses-backend/internal/config"
	embedwx "courses-backend/internal/embedding/watsonx"
	"courses-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	embedder, err := embedwx.NewClient(embedwx.Config{
		APIKey:      cfg.WatsonxAPIKey,
		ProjectID:   cfg.WatsonxProjectID,
		Model:       cfg.EmbeddingModel,
		BaseURL:     cfg.WatsonxURL,
		IAMTokenURL: cfg.IAMTokenURL,
	})
	if err != nil {
		log.Printf("embedding client unavailable: %v", err)
		os.Exit(1)
	}

	repo := &catalog.PGRepo{DB: sqlDB}
	pending, err := repo.ListMissingEmbedding(ctx)
	if err != nil {
		log.Printf("failed to list pending courses: %v", err)
		os.Exit(1)
	}
	if len(pending) == 0 {
		log.Printf("all courses already embedded")
		return
	}

	log.Printf("embedding %d courses", len(pending))
	var failed int
	for _, course := range pending {
		embedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		vector, err := embedder.Embed(embedCtx, course.EmbeddingText())
		cancel()
		if err != nil {
			log.Printf("embed %s failed: %v", course.CourseID, err)
			failed++
			continue
		}
		if err := repo.UpdateEmbedding(ctx, course.CourseID, vector); err != nil {
			log.Printf("store embedding %s failed: %v", course.CourseID, err)
			failed++
		}
	}

	log.Printf("done: %d embedded, %d failed", len(pending)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
