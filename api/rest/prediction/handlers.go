package prediction

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/cosmicquirks/assets"
	"codeberg.org/cosmicquirks/server/cosmicquirks/predictions"
	"codeberg.org/cosmicquirks/server/internal/access"
	"codeberg.org/cosmicquirks/server/internal/auth"
	"codeberg.org/cosmicquirks/server/internal/errors"
	"codeberg.org/cosmicquirks/server/internal/imaging"
	"codeberg.org/cosmicquirks/server/internal/logger"
	"codeberg.org/cosmicquirks/server/internal/oracle"
	"codeberg.org/cosmicquirks/server/internal/themes"
)

const (
	sourceGenerated  = "ai"
	sourcePool       = "pool"
	sourceGuestSaved = "guest_saved"
)

// GenerateHandler runs the full reading pipeline: validate, gate on form
// access and daily quota, match a character, source an image (pool first
// for guests), optimize it for the tier and account for the generation.
func GenerateHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}
		if req.FormType == "" {
			req.FormType = access.DefaultForm
		}

		userID, registered := auth.GetUserID(c)
		tier := access.TierFor(registered, auth.GetPlanType(c))

		identifier := userID
		if !registered {
			identifier = c.ClientIP()
		}

		if !deps.Access.Allowed(req.FormType, tier) {
			errors.FormAccessDenied(c)
			return
		}

		status, err := deps.Tracker.CheckLimit(c.Request.Context(), identifier, registered)
		if err != nil {
			// quota checks fail open, generation is the product
			logger.Warn("usage check failed, allowing request", "error", err)
		}
		if status != nil && !status.CanGenerate {
			errors.QuotaExceeded(c, status.Message, status.Used, status.Limit)
			return
		}

		theme := themes.Extract(req.Question)

		result, err := deps.Matcher.Match(c.Request.Context(), oracle.Input{
			Name:      req.Name,
			Birthdate: fmt.Sprintf("01-%s-%s", req.Month, req.Year),
			Question:  req.Question,
		})
		if err != nil {
			if stderrors.Is(err, oracle.ErrIncompleteResult) {
				errors.IncompleteResult(c)
				return
			}
			errors.GenerationFailed(c, err)
			return
		}

		image, source := sourceImage(c, deps, result, theme, req.FormType, registered, identifier)

		characterImage := image
		hasOptimized := false
		var sizeInfo map[string]string
		var variants *imaging.Variants

		if imaging.IsValidImageDataURI(image) {
			variants = imaging.SafeOptimizeForTier(image, tier, deps.Config.Imaging)
			if variants != nil {
				characterImage = imaging.VariantFor(variants, tier)
				hasOptimized = true
				sizeInfo = variantSizeInfo(variants)
			}
		}

		if characterImage == "" {
			characterImage = assets.Placeholder(result.CharacterName, theme)
		}

		predictionText := greet(req.Name, req.Month, req.Year, result.Prediction)

		saved := false
		if registered {
			saved = persistReading(c, deps, req, userID, result, predictionText, characterImage, variants, theme, source)
		}

		if !deps.Tracker.Increment(c.Request.Context(), identifier, registered) {
			logger.Warn("failed to record generation", "registered", registered)
		}

		remaining := 0
		if status != nil && status.Limit > status.Used {
			remaining = status.Limit - status.Used - 1
		}

		c.JSON(http.StatusOK, Response{
			Data: &Data{
				CharacterName:        result.CharacterName,
				CharacterDescription: result.CharacterDescription,
				CharacterImage:       characterImage,
				Prediction:           predictionText,
				Metadata: Metadata{
					UserType:           userType(registered),
					UserTier:           tier,
					UsageRemaining:     remaining,
					FormType:           req.FormType,
					GenerationSource:   source,
					HasOptimizedImages: hasOptimized,
					SavedToDatabase:    saved,
					ImageSizeInfo:      sizeInfo,
				},
			},
		})
	}
}

// guests draw from the reuse pool before spending an image generation;
// registered tiers always get a fresh portrait
func sourceImage(c *gin.Context, deps Dependencies, result *oracle.Result, theme, formType string, registered bool, identifier string) (string, string) {
	ctx := c.Request.Context()

	if !registered {
		asset, err := deps.Pool.Acquire(ctx, assets.Criteria{
			Theme:               theme,
			FormType:            formType,
			ExcludeRecentlyUsed: true,
			ClientIdentifier:    identifier,
		})
		if err != nil {
			logger.Warn("asset pool lookup failed", "theme", theme, "error", err)
		}
		if asset != nil {
			return asset.ImageData, sourcePool
		}
	}

	image := deps.Matcher.Illustrate(ctx, result)

	// fresh guest images seed the pool for later visitors
	if !registered && imaging.IsValidImageDataURI(image) {
		if _, err := deps.Pool.Add(ctx, image, result.CharacterName, result.CharacterDescription, theme, formType); err != nil {
			logger.Warn("failed to add image to asset pool", "theme", theme, "error", err)
		}
	}

	return image, sourceGenerated
}

func persistReading(c *gin.Context, deps Dependencies, req Request, userID string, result *oracle.Result, predictionText, characterImage string, variants *imaging.Variants, theme, source string) bool {
	record := predictions.Record{
		UserID:               userID,
		FormType:             req.FormType,
		InputName:            req.Name,
		InputBirthdate:       fmt.Sprintf("01-%s-%s", req.Month, req.Year),
		Question:             req.Question,
		CharacterName:        result.CharacterName,
		CharacterDescription: result.CharacterDescription,
		PredictionText:       predictionText,
		CharacterImage:       characterImage,
		ImageVariants:        variantsColumn(variants),
		Metadata: map[string]any{
			"model": result.Model,
			"theme": theme,
		},
		GenerationSource: source,
	}

	if _, err := deps.Store.Insert(c.Request.Context(), record); err != nil {
		// history is a convenience, the reading is already on its way out
		logger.ErrorErr(err, "failed to persist prediction", "user_id", userID)
		return false
	}
	return true
}

// greet prefixes the reading with a personal greeting. Visitors younger
// than twelve get a gentler framing line before the prediction.
func greet(name, birthMonth, birthYear, prediction string) string {
	greeting := fmt.Sprintf("Hi %s! ", name)

	year, yearErr := strconv.Atoi(birthYear)
	month, monthErr := strconv.Atoi(birthMonth)
	if yearErr == nil && monthErr == nil && age(month, year, time.Now().UTC()) < 12 {
		greeting += "You are just born I guess. But I will still tell your future: "
	}

	return greeting + prediction
}

// age computes full years lived as of now for someone born on the first
// day of the given month.
func age(birthMonth, birthYear int, now time.Time) int {
	years := now.Year() - birthYear
	if int(now.Month()) < birthMonth {
		years--
	}
	return years
}

func userType(registered bool) string {
	if registered {
		return "registered"
	}
	return "unregistered"
}

func variantSizeInfo(v *imaging.Variants) map[string]string {
	return map[string]string{
		"small":  fmt.Sprintf("%dKB", v.Small.SizeBytes/1024),
		"medium": fmt.Sprintf("%dKB", v.Medium.SizeBytes/1024),
		"large":  fmt.Sprintf("%dKB", v.Large.SizeBytes/1024),
	}
}

func variantsColumn(v *imaging.Variants) map[string]any {
	if v == nil {
		return nil
	}
	return map[string]any{
		"small":  variantEntry(v.Small),
		"medium": variantEntry(v.Medium),
		"large":  variantEntry(v.Large),
	}
}

func variantEntry(v imaging.Variant) map[string]any {
	return map[string]any{
		"url":       v.URL,
		"width":     v.Width,
		"height":    v.Height,
		"quality":   v.Quality,
		"sizeBytes": v.SizeBytes,
	}
}

// SaveHandler stores a reading a visitor generated before signing in.
// Saves are idempotent on (character, prediction, question).
func SaveHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		userID, registered := auth.GetUserID(c)
		if !registered {
			errors.Unauthorized(c, "sign in to save your reading")
			return
		}

		var req SaveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}
		if req.FormType == "" {
			req.FormType = access.DefaultForm
		}

		match, err := deps.Store.FindDuplicate(c.Request.Context(), userID, req.CharacterName, req.Prediction, req.Question)
		if err != nil {
			errors.InternalError(c, "failed to save prediction", err)
			return
		}
		if match != nil {
			c.JSON(http.StatusOK, SaveResponse{
				Success:       true,
				PredictionID:  match.ID,
				AlreadyExists: true,
			})
			return
		}

		saved, err := deps.Store.Insert(c.Request.Context(), predictions.Record{
			UserID:               userID,
			FormType:             req.FormType,
			InputName:            req.Name,
			InputBirthdate:       req.Birthdate,
			Question:             req.Question,
			CharacterName:        req.CharacterName,
			CharacterDescription: req.CharacterDescription,
			PredictionText:       req.Prediction,
			CharacterImage:       req.CharacterImage,
			GenerationSource:     sourceGuestSaved,
		})
		if err != nil {
			errors.InternalError(c, "failed to save prediction", err)
			return
		}

		c.JSON(http.StatusOK, SaveResponse{
			Success:      true,
			PredictionID: saved.ID,
		})
	}
}
