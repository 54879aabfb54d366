// Dev utility: creates (or reuses) a test user and prints a JWT for
// exercising authenticated endpoints with curl.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"codeberg.org/cosmicquirks/server/internal/auth"
	"codeberg.org/cosmicquirks/server/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	testEmail := "test@cosmicquirks.dev"
	testProvider := "test"
	testProviderID := "test-user-123"
	var userID string

	err = dbPool.QueryRow(ctx,
		"SELECT id FROM users WHERE provider = $1 AND provider_id = $2",
		testProvider, testProviderID,
	).Scan(&userID)

	if err != nil {
		userID = uuid.New().String()
		_, err = dbPool.Exec(ctx, `
			INSERT INTO users (id, email, provider, provider_id, name, plan_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'registered', NOW(), NOW())
		`, userID, testEmail, testProvider, testProviderID, "Test User")

		if err != nil {
			log.Fatalf("Failed to create test user: %v", err)
		}
		fmt.Printf("Created test user: %s (ID: %s)\n", testEmail, userID)
	} else {
		fmt.Printf("Using existing test user (ID: %s)\n", userID)
	}

	token, err := auth.NewService(cfg).GenerateJWT(userID, testEmail, "registered", false)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("\nTest JWT token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", token)
}
