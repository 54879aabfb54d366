package oracle

import "codeberg.org/cosmicquirks/server/internal/llm"

// fabricates a humorous historical character and prediction for a user
type Oracle struct {
	text   llm.TextGenerator
	images llm.ImageGenerator
}

// the user-supplied details the character is matched against
type Input struct {
	Name      string
	Birthdate string // "DD-MM-YYYY"
	Question  string
}

// a complete character match. CharacterImage is a raster data URI, or empty
// when image generation produced nothing; callers supply a placeholder.
type Result struct {
	CharacterName        string `json:"characterName"`
	CharacterDescription string `json:"characterDescription"`
	Prediction           string `json:"prediction"`
	CharacterImage       string `json:"-"`
	Model                string `json:"-"`
}
