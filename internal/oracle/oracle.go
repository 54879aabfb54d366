// Package oracle turns a name, birthdate and question into a fabricated
// historical character, a prediction and an optional illustration.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codeberg.org/cosmicquirks/server/internal/llm"
	"codeberg.org/cosmicquirks/server/internal/logger"
)

// the text generator responded but the parsed result is missing required
// fields; distinct from a transport failure because the upstream call itself
// succeeded
var ErrIncompleteResult = errors.New("character match response missing required fields")

// creates an oracle backed by the given generators
func New(text llm.TextGenerator, images llm.ImageGenerator) *Oracle {
	return &Oracle{
		text:   text,
		images: images,
	}
}

// Match generates the character and prediction text. The illustration is a
// separate step so callers can source an image from the reuse pool instead.
func (o *Oracle) Match(ctx context.Context, input Input) (*Result, error) {
	raw, err := o.text.GenerateJSON(ctx, systemPrompt, buildUserPrompt(input))
	if err != nil {
		return nil, fmt.Errorf("character generation failed: %w", err)
	}

	result, err := parseResult(raw)
	if err != nil {
		return nil, err
	}

	result.Model = o.text.Model()

	return result, nil
}

// Illustrate generates a portrait for a matched character. Image failures
// are tolerated and return an empty string; the caller falls back to the
// pool or a placeholder.
func (o *Oracle) Illustrate(ctx context.Context, result *Result) string {
	image, err := o.images.GenerateImage(ctx, buildImagePrompt(result))
	if err != nil {
		logger.ErrorErr(err, "image generation failed",
			"character", result.CharacterName,
		)
		return ""
	}
	return image
}

// decodes the model response, recovering the JSON object from surrounding
// prose when necessary, and enforces that all required fields are present
func parseResult(raw string) (*Result, error) {
	var result Result

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		recovered := llm.ExtractJSON(raw)

		if err := json.Unmarshal([]byte(recovered), &result); err != nil {
			return nil, fmt.Errorf("%w: unparseable response", ErrIncompleteResult)
		}
	}

	if result.CharacterName == "" || result.CharacterDescription == "" || result.Prediction == "" {
		return nil, ErrIncompleteResult
	}

	return &result, nil
}
