package repositories

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"katalog/internal/models"
	"katalog/internal/validation"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// The *gorm.DB must be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
type GORMProductRepository struct {
	db     *gorm.DB
	schema validation.Validator[*models.Product]
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db:     db,
		schema: validation.NewSchemaValidator(),
	}
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := prepare(r.schema, product); err != nil {
		return err
	}

	// GORM sets CreatedAt/UpdatedAt itself.
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &CreateError{Kind: FailureDuplicate, Err: errors.Wrap(err, "insert product")}
		}
		return &CreateError{Kind: FailurePersistence, Err: errors.Wrap(err, "insert product")}
	}
	return nil
}
