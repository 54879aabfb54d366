package oracle

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a playful fortune teller. Return ONLY compact JSON with keys: characterName, characterDescription, prediction."

// builds the character match request for the text generator
func buildUserPrompt(input Input) string {
	return fmt.Sprintf(
		"Create a funny imaginary historical character (birthday-aligned) and a prediction.\n"+
			"Name: %s\nBirthdate: %s\nQuestion: %s\n"+
			"Respond ONLY valid JSON with keys: characterName, characterDescription, prediction.",
		input.Name, input.Birthdate, input.Question,
	)
}

// builds the illustration prompt from a parsed character match
func buildImagePrompt(result *Result) string {
	return strings.Join([]string{
		"Generate a funny historical character matching the prediction.",
		"Create a single, front-facing, bust portrait cartoon illustration.",
		"Style: playful, caricature, thick outlines, flat shading, vibrant colors.",
		"No text, no letters, no watermark, no captions.",
		fmt.Sprintf("Character: %s.", result.CharacterName),
		fmt.Sprintf("Bio: %s.", result.CharacterDescription),
		fmt.Sprintf("Prediction: %s.", result.Prediction),
		"Show expression and props that reflect the prediction theme.",
	}, " ")
}
