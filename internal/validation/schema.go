package validation

import (
	"github.com/go-playground/validator/v10"

	"katalog/internal/models"
)

var schemaMessages = map[string]map[string]string{
	"name": {
		"required": "Product name is required",
		"min":      "Product name must be at least 3 characters long",
		"max":      "Product name cannot exceed 100 characters",
	},
	"price": {
		"gt": "Price must be a positive number",
	},
	"description": {
		"max": "Description cannot exceed 1000 characters",
	},
	"category": {
		"required": "Category is required",
		"min":      "Category must be at least 2 characters long",
		"max":      "Category cannot exceed 50 characters",
	},
	"image": {
		"imageurl": "Image must be a valid URL",
	},
}

// SchemaValidator checks a product against the storage-level constraints.
// Repositories run it before writing, independently of FieldValidator.
type SchemaValidator struct {
	validate *validator.Validate
}

// NewSchemaValidator creates a SchemaValidator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{validate: newEngine()}
}

// Validate checks p and returns one violation per failing field.
func (v *SchemaValidator) Validate(p *models.Product) Violations {
	if p == nil {
		return Violations{{Message: "product is required"}}
	}
	return collect(v.validate.Struct(p), schemaMessages)
}
