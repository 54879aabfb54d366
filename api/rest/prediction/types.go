package prediction

import (
	"context"

	"codeberg.org/cosmicquirks/server/cosmicquirks/assets"
	"codeberg.org/cosmicquirks/server/cosmicquirks/predictions"
	"codeberg.org/cosmicquirks/server/cosmicquirks/usage"
	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/oracle"
)

// matches a visitor to a character and optionally illustrates it
type CharacterMatcher interface {
	Match(ctx context.Context, input oracle.Input) (*oracle.Result, error)
	Illustrate(ctx context.Context, result *oracle.Result) string
}

// enforces and records daily generation quotas
type UsageTracker interface {
	CheckLimit(ctx context.Context, identifier string, registered bool) (*usage.Status, error)
	Increment(ctx context.Context, identifier string, registered bool) bool
}

// serves and grows the reusable character image pool
type AssetSource interface {
	Acquire(ctx context.Context, criteria assets.Criteria) (*assets.Asset, error)
	Add(ctx context.Context, imageData, characterName, characterDescription, theme, formType string) (*assets.Asset, error)
}

// persists readings for registered users
type PredictionStore interface {
	Insert(ctx context.Context, record predictions.Record) (*predictions.Prediction, error)
	FindDuplicate(ctx context.Context, userID, characterName, predictionText, question string) (*predictions.DuplicateMatch, error)
}

// decides which forms a tier may submit
type AccessPolicy interface {
	Allowed(formType, tier string) bool
}

// everything the generation pipeline needs
type Dependencies struct {
	Config  *config.Config
	Matcher CharacterMatcher
	Tracker UsageTracker
	Pool    AssetSource
	Store   PredictionStore
	Access  AccessPolicy
}

// Request is the generation form submission. Month and year arrive as
// strings because the form sends them unpadded.
type Request struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	Month    string `json:"month" binding:"required,min=1,max=2"`
	Year     string `json:"year" binding:"required,len=4"`
	Question string `json:"question" binding:"required,min=10,max=500"`
	FormType string `json:"formType"`
}

// Metadata describes how a reading was produced.
type Metadata struct {
	UserType           string            `json:"userType"`
	UserTier           string            `json:"userTier"`
	UsageRemaining     int               `json:"usageRemaining"`
	FormType           string            `json:"formType"`
	GenerationSource   string            `json:"generationSource"`
	HasOptimizedImages bool              `json:"hasOptimizedImages"`
	SavedToDatabase    bool              `json:"savedToDatabase"`
	ImageSizeInfo      map[string]string `json:"imageSizeInfo,omitempty"`
}

// Data is the successful generation payload.
type Data struct {
	CharacterName        string   `json:"characterName"`
	CharacterDescription string   `json:"characterDescription"`
	CharacterImage       string   `json:"characterImage"`
	Prediction           string   `json:"prediction"`
	Metadata             Metadata `json:"metadata"`
}

// Response wraps the payload in the envelope the frontend expects.
type Response struct {
	Data  *Data   `json:"data"`
	Error *string `json:"error"`
}

// SaveRequest persists a reading the visitor generated before signing in.
type SaveRequest struct {
	CharacterName        string `json:"characterName" binding:"required"`
	CharacterDescription string `json:"characterDescription"`
	Prediction           string `json:"prediction" binding:"required"`
	Question             string `json:"question" binding:"required"`
	FormType             string `json:"formType"`
	CharacterImage       string `json:"characterImage"`
	Name                 string `json:"name"`
	Birthdate            string `json:"birthdate"`
}

// SaveResponse reports the save outcome.
type SaveResponse struct {
	Success       bool   `json:"success"`
	PredictionID  string `json:"predictionId,omitempty"`
	AlreadyExists bool   `json:"alreadyExists,omitempty"`
}
