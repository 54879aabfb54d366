package config

import "time"

// holds everything the server needs, loaded once at startup and passed down
type Config struct {
	Environment string
	BaseURL     string
	Port        string

	DatabaseURL string

	OpenAIKey        string
	OpenAITextModel  string
	OpenAIImageModel string

	JWTSecret     string
	SessionSecret string

	Limits    TierLimits
	Forms     FormAccess
	AssetPool AssetPoolConfig
	Imaging   ImagingConfig
	RateLimit RateLimitConfig
}

// daily generation quotas per tier
type TierLimits struct {
	Unregistered int
	Registered   int
	Premium      int
}

// returns the daily limit for a tier name
func (l TierLimits) For(tier string) int {
	switch tier {
	case "premium":
		return l.Premium
	case "registered":
		return l.Registered
	default:
		return l.Unregistered
	}
}

// permitted form types per tier
type FormAccess struct {
	Unregistered []string
	Registered   []string
	Premium      []string
}

// asset pool sizing and reuse policy
type AssetPoolConfig struct {
	MinPoolSize       int
	ReuseCooldownDays int
}

// image variant encoding policy
type ImagingConfig struct {
	// per-tier byte budget (KB) and starting JPEG quality
	MaxSizeKB   map[string]int
	BaseQuality map[string]int

	// floor applied to every variant's quality
	MinQuality int

	// iterative quality reduction toward the byte budget
	DynamicQuality bool
	MaxIterations  int
}

// one rate limit class: a request cap within a rolling window
type RateLimitClass struct {
	Window time.Duration
	Max    int
}

// per-endpoint-class request throttles
type RateLimitConfig struct {
	// skip all checks (development convenience, never set in production)
	Skip bool

	Prediction RateLimitClass
	Auth       RateLimitClass
	API        RateLimitClass
}
