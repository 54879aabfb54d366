// Package imaging derives tiered resolution/quality variants from one
// generated source image, sized to per-tier byte budgets.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	"codeberg.org/cosmicquirks/server/internal/access"
	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/logger"
	"github.com/disintegration/imaging"
)

// Optimize decodes a raster data URI and derives the small/medium/large
// variants. The source image is never mutated; each variant is resized and
// encoded independently.
func Optimize(dataURI string, cfg OptimizationConfig) (*Variants, error) {
	raw, err := decodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}

	large, err := processVariant(src, cfg.Large, cfg)
	if err != nil {
		return nil, fmt.Errorf("large variant: %w", err)
	}

	medium, err := processVariant(src, cfg.Medium, cfg)
	if err != nil {
		return nil, fmt.Errorf("medium variant: %w", err)
	}

	small, err := processVariant(src, cfg.Small, cfg)
	if err != nil {
		return nil, fmt.Errorf("small variant: %w", err)
	}

	return &Variants{Small: *small, Medium: *medium, Large: *large}, nil
}

// OptimizeForTier derives variants using the tier's budget and quality knobs
func OptimizeForTier(dataURI, tier string, cfg config.ImagingConfig) (*Variants, error) {
	return Optimize(dataURI, ConfigForTier(tier, cfg))
}

// SafeOptimizeForTier is the error-swallowing wrapper used on the request
// path: any validation or encoding failure yields nil, and the caller falls
// back to the pre-optimization source image.
func SafeOptimizeForTier(dataURI, tier string, cfg config.ImagingConfig) *Variants {
	if !IsValidImageDataURI(dataURI) {
		logger.Warn("invalid image data URI provided for optimization")
		return nil
	}

	variants, err := OptimizeForTier(dataURI, tier, cfg)
	if err != nil {
		logger.ErrorErr(err, "image optimization failed", "tier", tier)
		return nil
	}

	return variants
}

// resizes (cover-fit, centered crop) to the target square and JPEG-encodes.
// With a byte budget and dynamic adjustment, re-encodes at progressively
// lower quality (step -10, floored at the global minimum) up to the bounded
// iteration count. Greedy, not optimal: terminates in O(MaxIterations)
// encodes whether or not the budget is ever satisfied.
func processVariant(src image.Image, target VariantTarget, cfg OptimizationConfig) (*Variant, error) {
	resized := imaging.Fill(src, target.Size, target.Size, imaging.Center, imaging.Lanczos)

	quality := target.Quality

	encoded, err := encodeJPEG(resized, quality)
	if err != nil {
		return nil, err
	}

	if cfg.DynamicQuality && target.MaxSizeKB > 0 {
		targetBytes := target.MaxSizeKB * 1024

		for iteration := 0; iteration < cfg.MaxIterations; iteration++ {
			if len(encoded) <= targetBytes || quality <= cfg.MinQuality {
				break
			}

			quality = max(quality-10, cfg.MinQuality)

			encoded, err = encodeJPEG(resized, quality)
			if err != nil {
				return nil, err
			}
		}
	}

	return &Variant{
		URL:       encodeJPEGDataURI(encoded),
		Width:     target.Size,
		Height:    target.Size,
		Quality:   quality,
		SizeBytes: len(encoded),
	}, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer

	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("jpeg encode at quality %d failed: %w", quality, err)
	}

	return buf.Bytes(), nil
}

// TotalSize reports the combined storage footprint of all variants
func TotalSize(v *Variants) int {
	return v.Small.SizeBytes + v.Medium.SizeBytes + v.Large.SizeBytes
}

// VariantFor picks the rendition served to a user tier, with the original's
// fallback chain when a variant is missing its payload
func VariantFor(v *Variants, tier string) string {
	if v == nil {
		return ""
	}

	switch tier {
	case access.TierUnregistered:
		return firstNonEmpty(v.Small.URL, v.Medium.URL)
	case access.TierPremium:
		return firstNonEmpty(v.Large.URL, v.Medium.URL)
	default:
		return firstNonEmpty(v.Medium.URL, v.Large.URL, v.Small.URL)
	}
}

// VariantForContext picks a rendition for a rendering context. Print quality
// is a premium-only surface.
func VariantForContext(v *Variants, context, tier string) (Variant, error) {
	switch context {
	case "thumbnail":
		return v.Small, nil
	case "card":
		if tier == access.TierUnregistered {
			return v.Small, nil
		}
		return v.Medium, nil
	case "full":
		if tier == access.TierPremium {
			return v.Large, nil
		}
		return v.Medium, nil
	case "print":
		if tier != access.TierPremium {
			return Variant{}, fmt.Errorf("print quality images are only available for premium users")
		}
		return v.Large, nil
	default:
		return v.Medium, nil
	}
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}

	return ""
}
