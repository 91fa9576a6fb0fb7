package main

import (
	"log"
	"os"

	"notesearch-be/internal/model"
	"notesearch-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: failed to connect to database: ", err)
	}

	log.Println("Starting GORM migration...")

	// Extensions first: gen_random_uuid() and the vector column type must
	// exist before AutoMigrate runs.
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: failed to execute setup SQL: %v", err)
		}
	}

	models := []interface{}{
		&model.User{},
		&model.EmailVerificationToken{},
		&model.Note{},
		&model.NoteShare{},
		&model.NoteEmbedding{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// ANN index for cosine search; AutoMigrate only creates btree indexes.
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_note_embeddings_vector_cosine
		 ON note_embeddings USING hnsw (vector vector_cosine_ops);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: database migration completed.")
}
