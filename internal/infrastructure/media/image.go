package media

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"chatmarket/pkg/errors"
)

const MaxImageSize = 5 * 1024 * 1024

// ValidateImage checks an uploaded logo, banner or product image. Values that
// are not data URLs (remote URLs, avatar glyphs, empty) pass untouched; data
// URLs must decode to an image of at most MaxImageSize bytes. The detected
// type wins over the declared one.
func ValidateImage(field, value string) error {
	if !strings.HasPrefix(value, "data:") {
		return nil
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(value, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return errors.Validation(fmt.Sprintf("%s must be a base64 image", field))
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+2 {
		return errors.Validation("Image size must be less than 5MB")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return errors.Validation(fmt.Sprintf("%s must be a base64 image", field))
	}
	if len(raw) > MaxImageSize {
		return errors.Validation("Image size must be less than 5MB")
	}

	if !strings.HasPrefix(mimetype.Detect(raw).String(), "image/") {
		return errors.Validation("Please select an image file")
	}
	return nil
}
