package imaging

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const minBase64Length = 20

// IsValidImageDataURI reports whether a payload is a raster image data URI
// this package can process. Vector payloads (the SVG placeholder format) are
// explicitly rejected: re-encoding a placeholder is a no-op for callers, not
// an error.
func IsValidImageDataURI(dataURI string) bool {
	if dataURI == "" {
		return false
	}

	if !strings.HasPrefix(dataURI, "data:image/") {
		return false
	}

	parts := strings.Split(dataURI, ",")
	if len(parts) != 2 {
		return false
	}

	// only inspect the header, never the base64 payload
	if strings.Contains(strings.ToLower(parts[0]), "svg") {
		return false
	}

	if len(parts[1]) < minBase64Length {
		return false
	}

	return true
}

// decodeDataURI extracts the raw image bytes from a data URI
func decodeDataURI(dataURI string) ([]byte, error) {
	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data URI format")
	}

	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return raw, nil
}

// encodeJPEGDataURI wraps encoded JPEG bytes in a data URI
func encodeJPEGDataURI(data []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}
