package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/cosmicquirks/server/cosmicquirks/assets"
	"codeberg.org/cosmicquirks/server/cosmicquirks/predictions"
	"codeberg.org/cosmicquirks/server/cosmicquirks/usage"
	"codeberg.org/cosmicquirks/server/cosmicquirks/users"
	"codeberg.org/cosmicquirks/server/internal/auth"
	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/llm"
	"codeberg.org/cosmicquirks/server/internal/oracle"
	"codeberg.org/cosmicquirks/server/internal/ratelimit"
)

// holds all dependencies and state for the API server
type Server struct {
	db             *pgxpool.Pool
	config         *config.Config
	userRepo       *users.Repository
	predictionRepo *predictions.Repository
	assetPool      *assets.Pool
	tracker        *usage.Tracker
	authService    *auth.Service
	limiter        *ratelimit.Limiter
	cleanupService *assets.CleanupService
	services       *Services
	router         *gin.Engine
}

// holds all external service clients
type Services struct {
	Oracle *oracle.Oracle
	Text   llm.TextGenerator
	Images llm.ImageGenerator
}
