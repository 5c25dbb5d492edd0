package main

import (
	"log"
	"os"

	"vc-intel-be/internal/model"
	"vc-intel-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")

	// Extensions GORM AutoMigrate cannot create itself.
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	if err := db.AutoMigrate(&model.LayerDocument{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// IVFFlat index for the cosine-distance lookups. Created after the
	// table exists; harmless when re-run.
	indexSQL := `CREATE INDEX IF NOT EXISTS idx_layer_documents_embedding
		ON layer_documents USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);`
	if err := db.Exec(indexSQL).Error; err != nil {
		log.Printf("Warn: Failed to create vector index: %v", err)
	}

	log.Println("Success: Database migration completed via GORM.")
}
