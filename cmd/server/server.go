package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/cosmicquirks/server/cosmicquirks/assets"
	"codeberg.org/cosmicquirks/server/cosmicquirks/predictions"
	"codeberg.org/cosmicquirks/server/cosmicquirks/usage"
	"codeberg.org/cosmicquirks/server/cosmicquirks/users"
	"codeberg.org/cosmicquirks/server/internal/auth"
	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/ratelimit"
)

// how often the cleanup service prunes the asset pool
const assetCleanupInterval = 6 * time.Hour

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// configure connection pool for hosted pooler compatibility
	// the free tier pooler has few connections, so keep our pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// use simple protocol for PgBouncer in transaction mode, which does not
	// support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userRepo := users.NewRepository(db)
	predictionRepo := predictions.NewRepository(db)
	assetPool := assets.NewPool(db, cfg.AssetPool)
	tracker := usage.NewTracker(db, cfg.Limits)
	authService := auth.NewService(cfg)
	limiter := ratelimit.NewLimiter()

	services := InitializeServices(cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	server := &Server{
		db:             db,
		config:         cfg,
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
		assetPool:      assetPool,
		tracker:        tracker,
		authService:    authService,
		limiter:        limiter,
		cleanupService: assets.NewCleanupService(assetPool, assetCleanupInterval),
		services:       services,
		router:         router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
