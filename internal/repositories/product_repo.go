package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"katalog/internal/models"
	"katalog/internal/validation"
)

// ProductRepository defines the interface for product persistence.
type ProductRepository interface {
	// Create validates, normalizes and stores product, filling in ID and
	// timestamps. Failures are returned as *CreateError.
	Create(ctx context.Context, product *models.Product) error
}

// FailureKind classifies why a create failed.
type FailureKind int

const (
	// FailureSchema means the record violated a storage-level constraint.
	FailureSchema FailureKind = iota + 1
	// FailureDuplicate means a unique key already exists.
	FailureDuplicate
	// FailurePersistence covers every other storage error.
	FailurePersistence
)

func (k FailureKind) String() string {
	switch k {
	case FailureSchema:
		return "schema"
	case FailureDuplicate:
		return "duplicate"
	case FailurePersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// CreateError is the error returned by ProductRepository.Create.
type CreateError struct {
	Kind FailureKind
	// Messages holds one entry per violated field for FailureSchema.
	Messages []string
	Err      error
}

func (e *CreateError) Error() string {
	if e.Kind == FailureSchema {
		return "create product: schema validation failed: " + strings.Join(e.Messages, "; ")
	}
	if e.Err == nil {
		return "create product: " + e.Kind.String()
	}
	return "create product: " + e.Err.Error()
}

func (e *CreateError) Unwrap() error {
	return e.Err
}

// prepare normalizes product the way the schema stores it and runs the
// schema validator. It assigns an ID when none is set.
func prepare(schema validation.Validator[*models.Product], product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.Description = strings.TrimSpace(product.Description)
	product.Category = strings.ToLower(strings.TrimSpace(product.Category))

	if violations := schema.Validate(product); len(violations) > 0 {
		return &CreateError{Kind: FailureSchema, Messages: violations.Messages(), Err: violations}
	}

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return nil
}

func stamp(product *models.Product, now time.Time) {
	product.CreatedAt = now
	product.UpdatedAt = now
}
