package domain

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	pixel := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n"))
	cases := []struct {
		name  string
		image string
		want  error
	}{
		{"empty", "", nil},
		{"https url", "https://cdn.example.com/tetra.png", nil},
		{"base64 png", "data:image/png;base64," + pixel, nil},
		{"upper case scheme", "DATA:image/webp;BASE64," + pixel, nil},
		{"percent encoded svg", "data:image/svg+xml,%3Csvg%2F%3E", nil},
		{"relative path", "/images/tetra.png", ErrInvalidImage},
		{"ftp url", "ftp://example.com/tetra.png", ErrInvalidImage},
		{"non image media type", "data:text/html;base64," + pixel, ErrInvalidImage},
		{"missing payload separator", "data:image/png;base64", ErrInvalidImage},
		{"broken base64", "data:image/png;base64,@@@@", ErrInvalidImage},
		{"empty payload", "data:image/png;base64,", ErrInvalidImage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImage(tc.image)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateImage_SizeCap(t *testing.T) {
	atLimit := base64.StdEncoding.EncodeToString(make([]byte, MaxImageBytes))
	require.NoError(t, ValidateImage("data:image/jpeg;base64,"+atLimit))

	overLimit := base64.StdEncoding.EncodeToString(make([]byte, MaxImageBytes+1))
	require.ErrorIs(t, ValidateImage("data:image/jpeg;base64,"+overLimit), ErrImageTooLarge)

	raw := "data:image/svg+xml," + strings.Repeat("a", MaxImageBytes+1)
	require.ErrorIs(t, ValidateImage(raw), ErrImageTooLarge)
}

func TestNewProduct_RejectsNonImageDataURL(t *testing.T) {
	_, err := NewProduct("p", "Guppy", "", decimal.NewFromInt(10), "data:application/pdf;base64,JVBERi0=", CategoryFish, 1, "")
	require.ErrorIs(t, err, ErrInvalidImage)

	p, err := NewProduct("p", "Guppy", "", decimal.NewFromInt(10), "data:image/gif;base64,R0lGODlhAQABAAAAACw=", CategoryFish, 1, "")
	require.NoError(t, err)
	assert.True(t, IsInlineImage(p.Image))
}
