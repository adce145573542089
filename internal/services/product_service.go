package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/storage"
	"katalog/internal/validation"
)

// EventProductCreated is the routing key of the event published after a
// product is stored.
const EventProductCreated = "product.created"

// EventPublisher sends domain events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// ProductCreatedEvent is the payload of EventProductCreated.
type ProductCreatedEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	storage   storage.Storage
	images    *validation.ImageValidator
	fields    validation.Validator[models.ProductInput]
	publisher EventPublisher
	lg        *zap.Logger
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithPublisher publishes a product.created event after every successful
// create.
func WithPublisher(p EventPublisher) Option {
	return func(s *ProductService) {
		s.publisher = p
	}
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, store storage.Storage, lg *zap.Logger, opts ...Option) *ProductService {
	s := &ProductService{
		repo:    repo,
		storage: store,
		images:  validation.NewImageValidator(),
		fields:  validation.NewFieldValidator(),
		lg:      lg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProduct validates the image and the fields, uploads the image if
// there is one, and stores the product. Every failure is a
// *CreateProductError.
//
// An image uploaded before a failed insert is left in the bucket.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput, file *models.UploadedFile) (*models.Product, error) {
	if err := s.images.Validate(file); err != nil {
		kind := KindInvalidFileType
		if errors.Is(err, validation.ErrFileTooLarge) {
			kind = KindFileTooLarge
		}
		return nil, &CreateProductError{Kind: kind, Err: err}
	}

	in = validation.TrimInput(in)
	if violations := s.fields.Validate(in); len(violations) > 0 {
		return nil, &CreateProductError{Kind: KindValidationFailed, Violations: violations}
	}
	price, _ := validation.ParsePrice(in.Price)

	var imageURL *string
	if file != nil {
		url, err := s.storage.Upload(ctx, file.Data, validation.MediaType(file.MimeType))
		file.Data = nil
		if err != nil {
			return nil, &CreateProductError{Kind: KindUploadFailed, Err: errors.Wrap(err, "upload image")}
		}
		imageURL = &url
		s.lg.Debug("Image uploaded", zap.String("url", url))
	}

	product := &models.Product{
		Name:     in.Name,
		Price:    price,
		Category: in.Category,
		Image:    imageURL,
	}
	if in.Description != nil {
		product.Description = *in.Description
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, persistenceError(err)
	}

	s.publishCreated(product)
	return product, nil
}

// persistenceError maps a repository failure onto the service taxonomy.
func persistenceError(err error) *CreateProductError {
	var createErr *repositories.CreateError
	if !errors.As(err, &createErr) {
		return &CreateProductError{Kind: KindPersistenceError, Err: err}
	}

	switch createErr.Kind {
	case repositories.FailureSchema:
		return &CreateProductError{Kind: KindSchemaValidationFailed, Messages: createErr.Messages, Err: err}
	case repositories.FailureDuplicate:
		return &CreateProductError{Kind: KindDuplicateResource, Err: err}
	case repositories.FailurePersistence:
		return &CreateProductError{Kind: KindPersistenceError, Err: err}
	default:
		return &CreateProductError{Kind: KindPersistenceError, Err: err}
	}
}

func (s *ProductService) publishCreated(product *models.Product) {
	if s.publisher == nil {
		return
	}
	event := ProductCreatedEvent{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Category:  product.Category,
		Image:     product.Image,
		CreatedAt: product.CreatedAt,
	}
	if err := s.publisher.Publish(EventProductCreated, event); err != nil {
		s.lg.Warn("Failed to publish product event",
			zap.String("product_id", product.ID),
			zap.Error(err),
		)
	}
}
