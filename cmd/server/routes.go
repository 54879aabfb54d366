package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/api/rest/admin"
	"codeberg.org/cosmicquirks/server/api/rest/auth"
	"codeberg.org/cosmicquirks/server/api/rest/health"
	"codeberg.org/cosmicquirks/server/api/rest/history"
	"codeberg.org/cosmicquirks/server/api/rest/prediction"
	usagerest "codeberg.org/cosmicquirks/server/api/rest/usage"
	"codeberg.org/cosmicquirks/server/internal/access"
	"codeberg.org/cosmicquirks/server/internal/ratelimit"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server))
	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")
	v1.Use(ratelimit.APIMiddleware(server.config.RateLimit))

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.userRepo, server.authService, server.limiter, server.config.RateLimit)
		prediction.RegisterRoutes(v1, predictionDeps(server), server.authService, server.limiter)
		history.RegisterRoutes(v1, server.predictionRepo, server.authService)
		usagerest.RegisterRoutes(v1, server.tracker, server.authService)
		admin.RegisterRoutes(v1, server.assetPool, server.tracker, server.authService)
	}
}

func predictionDeps(server *Server) prediction.Dependencies {
	return prediction.Dependencies{
		Config:  server.config,
		Matcher: server.services.Oracle,
		Tracker: server.tracker,
		Pool:    server.assetPool,
		Store:   server.predictionRepo,
		Access:  access.NewPolicy(server.config.Forms),
	}
}

// allows the frontend origin plus local development hosts
func CORSMiddleware(server *Server) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{
			server.config.BaseURL,
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
