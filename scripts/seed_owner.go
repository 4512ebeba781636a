package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/jmakela/profiili/pkg/auth"
)

// Seeds one account with its (empty) profile. The account id doubles as the
// profile id.
func main() {
	fmt.Println("seeding account and profile...")

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	email := os.Getenv("OWNER_EMAIL")
	name := os.Getenv("OWNER_NAME")
	password := os.Getenv("OWNER_PASSWORD")

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("cannot begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.New()
	accountQuery := `
		INSERT INTO accounts (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = $3, password_hash = $4
		RETURNING id
	`
	if err := tx.QueryRow(ctx, accountQuery, id, email, name, hash).Scan(&id); err != nil {
		log.Fatalf("cannot upsert account: %v", err)
	}

	profileQuery := `
		INSERT INTO profiles (id, headline, bio, photo_url, updated_at)
		VALUES ($1, '', '', '', now())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, profileQuery, id); err != nil {
		log.Fatalf("cannot create profile: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("cannot commit: %v", err)
	}

	fmt.Printf("seeded account '%s' with profile %s\n", email, id)
}
