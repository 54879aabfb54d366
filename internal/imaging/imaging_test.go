package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"codeberg.org/cosmicquirks/server/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builds a gradient PNG data URI of the given dimensions
func testImageDataURI(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testImagingConfig() config.ImagingConfig {
	return config.ImagingConfig{
		MaxSizeKB:      map[string]int{"unregistered": 450, "registered": 450, "premium": 450},
		BaseQuality:    map[string]int{"unregistered": 85, "registered": 85, "premium": 85},
		MinQuality:     60,
		DynamicQuality: false,
		MaxIterations:  5,
	}
}

func TestOptimizeProducesThreeSquareVariants(t *testing.T) {
	src := testImageDataURI(t, 640, 480)
	cfg := testImagingConfig()

	variants, err := OptimizeForTier(src, "registered", cfg)
	require.NoError(t, err)

	assert.Equal(t, 256, variants.Small.Width)
	assert.Equal(t, 256, variants.Small.Height)
	assert.Equal(t, 512, variants.Medium.Width)
	assert.Equal(t, 512, variants.Medium.Height)
	assert.Equal(t, 1024, variants.Large.Width)
	assert.Equal(t, 1024, variants.Large.Height)

	for _, v := range []Variant{variants.Small, variants.Medium, variants.Large} {
		assert.GreaterOrEqual(t, v.Quality, cfg.MinQuality)
		assert.LessOrEqual(t, v.Quality, cfg.BaseQuality["registered"])
		assert.True(t, strings.HasPrefix(v.URL, "data:image/jpeg;base64,"))
		assert.Positive(t, v.SizeBytes)
	}
}

func TestOptimizeQualityAllocationPerVariant(t *testing.T) {
	src := testImageDataURI(t, 300, 300)

	variants, err := OptimizeForTier(src, "registered", testImagingConfig())
	require.NoError(t, err)

	assert.Equal(t, 70, variants.Small.Quality)  // base-15
	assert.Equal(t, 80, variants.Medium.Quality) // base-5
	assert.Equal(t, 85, variants.Large.Quality)  // base
}

func TestOptimizeQualityFlooredAtMinimum(t *testing.T) {
	cfg := testImagingConfig()
	cfg.BaseQuality = map[string]int{"unregistered": 62, "registered": 62, "premium": 62}

	src := testImageDataURI(t, 300, 300)

	variants, err := OptimizeForTier(src, "registered", cfg)
	require.NoError(t, err)

	// base-15 and base-5 both clamp at the global minimum
	assert.Equal(t, cfg.MinQuality, variants.Small.Quality)
	assert.Equal(t, cfg.MinQuality, variants.Medium.Quality)
	assert.Equal(t, 62, variants.Large.Quality)
}

func TestDynamicQualityNeverGoesBelowMinimum(t *testing.T) {
	cfg := testImagingConfig()
	cfg.DynamicQuality = true
	// impossible budget forces the search to exhaust its iterations
	cfg.MaxSizeKB = map[string]int{"unregistered": 1, "registered": 1, "premium": 1}

	src := testImageDataURI(t, 800, 800)

	variants, err := OptimizeForTier(src, "registered", cfg)
	require.NoError(t, err)

	for _, v := range []Variant{variants.Small, variants.Medium, variants.Large} {
		assert.GreaterOrEqual(t, v.Quality, cfg.MinQuality)
	}
}

func TestReoptimizingMediumThroughSmallPipeline(t *testing.T) {
	cfg := testImagingConfig()
	src := testImageDataURI(t, 700, 700)

	first, err := OptimizeForTier(src, "registered", cfg)
	require.NoError(t, err)

	// a medium-tier payload pushed back through the pipeline lands at the
	// small target's dimensions, not the medium's
	second, err := OptimizeForTier(first.Medium.URL, "registered", cfg)
	require.NoError(t, err)

	assert.Equal(t, 256, second.Small.Width)
	assert.Equal(t, 256, second.Small.Height)
}

func TestSafeOptimizeForTierRejectsInvalidInput(t *testing.T) {
	cfg := testImagingConfig()

	assert.Nil(t, SafeOptimizeForTier("", "registered", cfg))
	assert.Nil(t, SafeOptimizeForTier("data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=", "registered", cfg))
	assert.Nil(t, SafeOptimizeForTier("data:image/png;base64,!!!not-base64-at-all!!!", "registered", cfg))
}

func TestIsValidImageDataURI(t *testing.T) {
	valid := testImageDataURI(t, 10, 10)

	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"valid png", valid, true},
		{"empty", "", false},
		{"not a data uri", "https://example.com/cat.png", false},
		{"svg header rejected", "data:image/svg+xml;base64," + strings.Repeat("A", 40), false},
		{"uppercase svg header rejected", "data:image/SVG+XML;base64," + strings.Repeat("A", 40), false},
		{"missing payload", "data:image/png;base64,", false},
		{"payload too short", "data:image/png;base64,AAAA", false},
		{"two commas", "data:image/png;base64,AAAA,BBBB", false},
		{"wrong mime class", "data:text/plain;base64," + strings.Repeat("A", 40), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidImageDataURI(tc.in))
		})
	}
}

func TestVariantFor(t *testing.T) {
	v := &Variants{
		Small:  Variant{URL: "small"},
		Medium: Variant{URL: "medium"},
		Large:  Variant{URL: "large"},
	}

	assert.Equal(t, "small", VariantFor(v, "unregistered"))
	assert.Equal(t, "medium", VariantFor(v, "registered"))
	assert.Equal(t, "large", VariantFor(v, "premium"))
	assert.Equal(t, "", VariantFor(nil, "registered"))

	// fallback chain when a payload is missing
	v.Medium.URL = ""
	assert.Equal(t, "large", VariantFor(v, "registered"))
}

func TestVariantForContextPrintIsPremiumOnly(t *testing.T) {
	v := &Variants{Large: Variant{URL: "large"}}

	_, err := VariantForContext(v, "print", "registered")
	assert.Error(t, err)

	got, err := VariantForContext(v, "print", "premium")
	assert.NoError(t, err)
	assert.Equal(t, "large", got.URL)
}

func TestTotalSize(t *testing.T) {
	v := &Variants{
		Small:  Variant{SizeBytes: 10},
		Medium: Variant{SizeBytes: 20},
		Large:  Variant{SizeBytes: 30},
	}

	assert.Equal(t, 60, TotalSize(v))
}
