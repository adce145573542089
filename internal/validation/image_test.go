package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"katalog/internal/models"
	"katalog/internal/validation"
)

func TestImageValidator(t *testing.T) {
	v := validation.NewImageValidator()

	tests := []struct {
		name string
		file *models.UploadedFile
		want error
	}{
		{"no file", nil, nil},
		{"png", &models.UploadedFile{MimeType: "image/png", Size: 10}, nil},
		{"jpeg", &models.UploadedFile{MimeType: "image/jpeg", Size: 10}, nil},
		{"jpg", &models.UploadedFile{MimeType: "image/jpg", Size: 10}, nil},
		{"webp at limit", &models.UploadedFile{MimeType: "image/webp", Size: validation.MaxImageSize}, nil},
		{"gif", &models.UploadedFile{MimeType: "image/gif", Size: 10}, validation.ErrInvalidFileType},
		{"pdf", &models.UploadedFile{MimeType: "application/pdf", Size: 10}, validation.ErrInvalidFileType},
		{"too large", &models.UploadedFile{MimeType: "image/png", Size: validation.MaxImageSize + 1}, validation.ErrFileTooLarge},
		{"uppercase", &models.UploadedFile{MimeType: "IMAGE/PNG", Size: 10}, nil},
		{"with parameters", &models.UploadedFile{MimeType: "image/png; charset=binary", Size: 10}, nil},
		{"gif with parameters", &models.UploadedFile{MimeType: "image/gif; charset=binary", Size: 10}, validation.ErrInvalidFileType},
		{"type checked first", &models.UploadedFile{MimeType: "image/gif", Size: validation.MaxImageSize + 1}, validation.ErrInvalidFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.file))
		})
	}
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/png", validation.MediaType("image/png"))
	assert.Equal(t, "image/png", validation.MediaType("IMAGE/PNG"))
	assert.Equal(t, "image/jpeg", validation.MediaType("image/jpeg; charset=binary"))
	assert.Equal(t, "", validation.MediaType(""))
}
