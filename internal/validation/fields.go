package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"katalog/internal/models"
)

var fieldMessages = map[string]map[string]string{
	"name": {
		"required":    "Product name is required",
		"min":         "Product name must be between 3 and 100 characters",
		"max":         "Product name must be between 3 and 100 characters",
		"productname": "Product name contains invalid characters",
	},
	"price": {
		"required": "Price is required",
		"decimal":  "Price must be a positive number greater than 0",
		"price":    "Price must be a positive number greater than 0",
	},
	"description": {
		"max": "Description cannot exceed 1000 characters",
	},
	"category": {
		"required": "Category is required",
		"min":      "Category must be between 2 and 50 characters",
		"max":      "Category must be between 2 and 50 characters",
		"category": "Category contains invalid characters",
	},
}

// FieldValidator applies the request-level rules to a raw submission.
type FieldValidator struct {
	validate *validator.Validate
}

// NewFieldValidator creates a FieldValidator.
func NewFieldValidator() *FieldValidator {
	return &FieldValidator{validate: newEngine()}
}

// Validate trims the input and checks it, returning every violated field.
func (v *FieldValidator) Validate(in models.ProductInput) Violations {
	return collect(v.validate.Struct(TrimInput(in)), fieldMessages)
}

// TrimInput returns a copy of in with surrounding whitespace removed from
// every field.
func TrimInput(in models.ProductInput) models.ProductInput {
	out := models.ProductInput{
		Name:     strings.TrimSpace(in.Name),
		Price:    strings.TrimSpace(in.Price),
		Category: strings.TrimSpace(in.Category),
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		out.Description = &description
	}
	return out
}
