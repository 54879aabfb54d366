package assets

import (
	"encoding/base64"
	"fmt"
	"html"

	"codeberg.org/cosmicquirks/server/internal/themes"
)

type palette struct {
	primary    string
	background string
}

var themePalettes = map[string]palette{
	themes.Love:    {primary: "#E91E63", background: "#FCE4EC"},
	themes.Career:  {primary: "#2196F3", background: "#E3F2FD"},
	themes.Health:  {primary: "#4CAF50", background: "#E8F5E9"},
	themes.Finance: {primary: "#FF9800", background: "#FFF3E0"},
	themes.Travel:  {primary: "#9C27B0", background: "#F3E5F5"},
	themes.Family:  {primary: "#795548", background: "#EFEBE9"},
	themes.General: {primary: "#9F50C9", background: "#F3E5F5"},
}

// Placeholder renders a themed SVG stand-in for a character whose image
// could not be generated or reused. SVG keeps the response self-contained
// without another model call; callers must not feed it back into the pool
// or the raster optimizer.
func Placeholder(characterName, theme string) string {
	colors, ok := themePalettes[theme]
	if !ok {
		colors = themePalettes[themes.General]
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="512" height="512" viewBox="0 0 512 512">`+
		`<rect width="512" height="512" fill="%s"/>`+
		`<circle cx="256" cy="190" r="90" fill="%s" opacity="0.85"/>`+
		`<circle cx="226" cy="175" r="12" fill="%s"/>`+
		`<circle cx="286" cy="175" r="12" fill="%s"/>`+
		`<path d="M 216 225 Q 256 255 296 225" stroke="%s" stroke-width="8" fill="none" stroke-linecap="round"/>`+
		`<text x="256" y="370" font-family="Georgia, serif" font-size="32" fill="%s" text-anchor="middle">%s</text>`+
		`<text x="256" y="410" font-family="Georgia, serif" font-size="18" fill="%s" opacity="0.7" text-anchor="middle">Cosmic Entanglement</text>`+
		`</svg>`,
		colors.background,
		colors.primary,
		colors.background, colors.background,
		colors.background,
		colors.primary, html.EscapeString(characterName),
		colors.primary,
	)

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
