package imaging

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeDataURL builds "data:<mediaType>;base64,<payload>".
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its media type and payload.
func ParseDataURL(dataURL string) (string, []byte, error) {
	meta, payload, found := strings.Cut(dataURL, ",")
	if !found || !strings.HasPrefix(meta, "data:") {
		return "", nil, fmt.Errorf("%w: invalid data URL", ErrDecode)
	}

	mediaType, encoding, _ := strings.Cut(strings.TrimPrefix(meta, "data:"), ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("%w: data URL is not base64 encoded", ErrDecode)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", nil, fmt.Errorf("%w: unsupported media type %q", ErrDecode, mediaType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return mediaType, data, nil
}
