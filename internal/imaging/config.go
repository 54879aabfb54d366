package imaging

import "codeberg.org/cosmicquirks/server/internal/config"

const (
	smallSize  = 256
	mediumSize = 512
	largeSize  = 1024

	// fractional byte-budget allocations per variant
	smallBudgetShare  = 0.2
	mediumBudgetShare = 0.4
)

// derives the three variant targets from a tier's byte budget and base
// quality: small at base-15 quality and 20% of the budget, medium at base-5
// and 40%, large at base quality with the full budget. Every quality is
// floored at the configured global minimum.
func ConfigForTier(tier string, cfg config.ImagingConfig) OptimizationConfig {
	base, ok := cfg.BaseQuality[tier]
	if !ok {
		base = cfg.BaseQuality["registered"]
	}

	budget, ok := cfg.MaxSizeKB[tier]
	if !ok {
		budget = cfg.MaxSizeKB["registered"]
	}

	return OptimizationConfig{
		Small: VariantTarget{
			Size:      smallSize,
			Quality:   max(base-15, cfg.MinQuality),
			MaxSizeKB: int(float64(budget) * smallBudgetShare),
		},
		Medium: VariantTarget{
			Size:      mediumSize,
			Quality:   max(base-5, cfg.MinQuality),
			MaxSizeKB: int(float64(budget) * mediumBudgetShare),
		},
		Large: VariantTarget{
			Size:      largeSize,
			Quality:   base,
			MaxSizeKB: budget,
		},
		MinQuality:     cfg.MinQuality,
		DynamicQuality: cfg.DynamicQuality,
		MaxIterations:  cfg.MaxIterations,
	}
}
