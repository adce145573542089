package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"katalog/internal/models"
	"katalog/internal/validation"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
	schema   validation.Validator[*models.Product]
	now      func() time.Time
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
		schema:   validation.NewSchemaValidator(),
		now:      time.Now,
	}
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return &CreateError{Kind: FailurePersistence, Err: err}
	}
	if err := prepare(r.schema, product); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return &CreateError{Kind: FailureDuplicate, Err: errors.Errorf("product with ID %s already exists", product.ID)}
	}
	stamp(product, r.now())
	r.products[product.ID] = *product
	return nil
}

// Get returns a copy of the stored product.
func (r *MemoryProductRepository) Get(id string) (models.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	return product, ok
}

// Len returns the number of stored products.
func (r *MemoryProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.products)
}
