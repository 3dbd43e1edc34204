package service

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// parseDataURL splits an inline "data:<mime>;base64,<payload>" image into
// its media type and decoded bytes. This is the form the browser submits and
// the form stored as a fallback when no object storage is configured.
func parseDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, fmt.Errorf("not a data URL")
	}
	rest := strings.TrimPrefix(s, "data:")

	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, fmt.Errorf("malformed data URL: missing payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("malformed data URL: payload is not base64 encoded")
	}
	mediaType := strings.TrimSuffix(meta, ";base64")
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("malformed data URL payload: %w", err)
	}
	return mediaType, data, nil
}
