package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"
)

// MaxImageBytes caps the decoded payload of an inline image.
const MaxImageBytes = 5 << 20

var (
	ErrInvalidImage  = errors.New("image must be an http(s) URL or an image data URL")
	ErrImageTooLarge = errors.New("image data exceeds 5MB")
)

const dataURLScheme = "data:"

// ValidateImage accepts an empty value, an absolute http(s) URL, or a data URL
// carrying an image/* payload of at most MaxImageBytes.
func ValidateImage(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if IsInlineImage(raw) {
		return validateDataURL(raw[len(dataURLScheme):])
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidImage
	}
	return nil
}

// IsInlineImage reports whether the image is embedded as a data URL.
func IsInlineImage(raw string) bool {
	raw = strings.TrimSpace(raw)
	return len(raw) >= len(dataURLScheme) && strings.EqualFold(raw[:len(dataURLScheme)], dataURLScheme)
}

func validateDataURL(rest string) error {
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return ErrInvalidImage
	}
	encoded := false
	if trimmed, found := strings.CutSuffix(strings.ToLower(meta), ";base64"); found {
		meta = meta[:len(trimmed)]
		encoded = true
	}
	mediaType, _, err := mime.ParseMediaType(meta)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%w: media type %q", ErrInvalidImage, meta)
	}
	if !encoded {
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return ErrInvalidImage
		}
		if len(decoded) > MaxImageBytes {
			return ErrImageTooLarge
		}
		return nil
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+2 {
		return ErrImageTooLarge
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if len(decoded) == 0 {
		return ErrInvalidImage
	}
	if len(decoded) > MaxImageBytes {
		return ErrImageTooLarge
	}
	return nil
}
