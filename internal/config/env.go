package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultUnregisteredLimit = 100
	defaultRegisteredLimit   = 10
	defaultPremiumLimit      = 50

	defaultUnregisteredForms = "fortune"
	defaultRegisteredForms   = "fortune,matchmaking,birthday,career,travel"

	defaultMinPoolSize       = 100
	defaultReuseCooldownDays = 7

	defaultMaxImageSizeKB = 450
	defaultBaseQuality    = 85
	defaultMinQuality     = 60
	defaultMaxIterations  = 5
)

// loads configuration from environment variables into one validated struct
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	cfg := &Config{
		Environment:      os.Getenv("ENVIRONMENT"),
		BaseURL:          os.Getenv("BASE_URL"),
		Port:             os.Getenv("PORT"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAITextModel:  os.Getenv("OPENAI_TEXT_MODEL"),
		OpenAIImageModel: os.Getenv("OPENAI_IMAGE_MODEL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.OpenAITextModel == "" {
		cfg.OpenAITextModel = "gpt-4o-mini"
	}

	if cfg.OpenAIImageModel == "" {
		cfg.OpenAIImageModel = "dall-e-3"
	}

	cfg.Limits = TierLimits{
		Unregistered: envInt("UNREGISTERED_DAILY_LIMIT", defaultUnregisteredLimit),
		Registered:   envInt("REGISTERED_DAILY_LIMIT", defaultRegisteredLimit),
		Premium:      envInt("PREMIUM_DAILY_LIMIT", defaultPremiumLimit),
	}

	cfg.Forms = FormAccess{
		Unregistered: envList("UNREGISTERED_FORMS", defaultUnregisteredForms),
		Registered:   envList("REGISTERED_FORMS", defaultRegisteredForms),
		Premium:      envList("PREMIUM_FORMS", defaultRegisteredForms),
	}

	cfg.AssetPool = AssetPoolConfig{
		MinPoolSize:       envInt("MIN_ASSET_POOL_SIZE", defaultMinPoolSize),
		ReuseCooldownDays: envInt("ASSET_REUSE_COOLDOWN_DAYS", defaultReuseCooldownDays),
	}

	cfg.Imaging = ImagingConfig{
		MaxSizeKB: map[string]int{
			"unregistered": envInt("UNREGISTERED_USER_MAX_IMAGE_SIZE_KB", defaultMaxImageSizeKB),
			"registered":   envInt("REGISTERED_USER_MAX_IMAGE_SIZE_KB", defaultMaxImageSizeKB),
			"premium":      envInt("PREMIUM_USER_MAX_IMAGE_SIZE_KB", defaultMaxImageSizeKB),
		},
		BaseQuality: map[string]int{
			"unregistered": envInt("UNREGISTERED_USER_BASE_QUALITY", defaultBaseQuality),
			"registered":   envInt("REGISTERED_USER_BASE_QUALITY", defaultBaseQuality),
			"premium":      envInt("PREMIUM_USER_BASE_QUALITY", defaultBaseQuality),
		},
		MinQuality:     envInt("MINIMUM_IMAGE_QUALITY", defaultMinQuality),
		DynamicQuality: os.Getenv("ENABLE_DYNAMIC_QUALITY_ADJUSTMENT") == "true",
		MaxIterations:  envInt("SIZE_OPTIMIZATION_ITERATIONS", defaultMaxIterations),
	}

	cfg.RateLimit = RateLimitConfig{
		Skip: os.Getenv("SKIP_RATE_LIMITS") == "true" || cfg.Environment == "development",
		Prediction: RateLimitClass{
			Window: envDuration("PREDICTION_RATE_WINDOW", time.Minute),
			Max:    envInt("PREDICTION_RATE_MAX", 3),
		},
		Auth: RateLimitClass{
			Window: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),
			Max:    envInt("AUTH_RATE_MAX", 10),
		},
		API: RateLimitClass{
			Window: envDuration("API_RATE_WINDOW", time.Minute),
			Max:    envInt("API_RATE_MAX", 30),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// rejects configurations that would misbehave silently at runtime
func (c *Config) validate() error {
	if c.Limits.Unregistered <= 0 || c.Limits.Registered <= 0 || c.Limits.Premium <= 0 {
		return fmt.Errorf("daily limits must be positive")
	}

	if c.Imaging.MinQuality < 1 || c.Imaging.MinQuality > 100 {
		return fmt.Errorf("MINIMUM_IMAGE_QUALITY must be between 1 and 100")
	}

	for tier, q := range c.Imaging.BaseQuality {
		if q < c.Imaging.MinQuality || q > 100 {
			return fmt.Errorf("base quality for tier %q must be between %d and 100", tier, c.Imaging.MinQuality)
		}
	}

	if c.Imaging.MaxIterations < 1 {
		return fmt.Errorf("SIZE_OPTIMIZATION_ITERATIONS must be at least 1")
	}

	if c.AssetPool.ReuseCooldownDays < 0 {
		return fmt.Errorf("ASSET_REUSE_COOLDOWN_DAYS must not be negative")
	}

	if len(c.Forms.Unregistered) == 0 {
		return fmt.Errorf("UNREGISTERED_FORMS must name at least one form type")
	}

	return nil
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func envList(key, fallback string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
