package validation

import (
	"mime"
	"strings"

	"github.com/go-faster/errors"

	"katalog/internal/models"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 5 * 1024 * 1024

// Image validation failures.
var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
	"image/webp": true,
}

// ImageValidator checks an optional uploaded image.
type ImageValidator struct{}

// NewImageValidator creates an ImageValidator.
func NewImageValidator() *ImageValidator {
	return &ImageValidator{}
}

// Validate returns nil when there is no file or the file is acceptable.
// The type is checked before the size; only the first failure is reported.
func (v *ImageValidator) Validate(file *models.UploadedFile) error {
	if file == nil {
		return nil
	}
	if !allowedImageTypes[MediaType(file.MimeType)] {
		return ErrInvalidFileType
	}
	if file.Size > MaxImageSize {
		return ErrFileTooLarge
	}
	return nil
}

// MediaType lower-cases a Content-Type value and strips its parameters,
// so "IMAGE/PNG; charset=binary" becomes "image/png". Unparseable values
// are returned trimmed and lower-cased.
func MediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
