package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"katalog/internal/models"
	"katalog/internal/services"
	"katalog/internal/validation"
)

// Response messages.
const (
	msgCreated           = "Product created successfully"
	msgInvalidBody       = "Invalid request body"
	msgInvalidFileType   = "Invalid file type. Only JPEG, PNG, and WebP images are allowed"
	msgFileTooLarge      = "File size too large. Maximum size is 5MB"
	msgValidationFailed  = "Validation failed"
	msgSchemaValidation  = "Database validation error"
	msgDuplicate         = "Product already exists"
	msgUploadFailed      = "Failed to upload image to S3"
	msgPersistenceFailed = "Failed to create product"
)

// ImageField is the multipart field carrying the product image.
const ImageField = "image"

// BodyLimit is the request body size the app must accept so that images
// just over the 5 MiB limit reach the image validator.
const BodyLimit = 10 * 1024 * 1024

// ProductCreator creates products. *services.ProductService implements it.
type ProductCreator interface {
	CreateProduct(ctx context.Context, in models.ProductInput, file *models.UploadedFile) (*models.Product, error)
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service ProductCreator
	lg      *zap.Logger
	// exposeErrors echoes internal error details to clients.
	exposeErrors bool
}

// NewProductHandler creates a new ProductHandler. When exposeErrors is
// false, responses never include the "error" detail field.
func NewProductHandler(service ProductCreator, lg *zap.Logger, exposeErrors bool) *ProductHandler {
	return &ProductHandler{
		service:      service,
		lg:           lg,
		exposeErrors: exposeErrors,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
}

// HandleCreateProduct creates a product from a multipart, urlencoded or
// JSON body. Only multipart bodies can carry an image. Request field
// violations answer "Validation failed" with {field, message} pairs;
// storage-level rejections answer "Database validation error" with plain
// messages.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in, file, err := parseCreateRequest(c)
	if err != nil {
		h.lg.Info("Invalid create product request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(h.failure(msgInvalidBody, err))
	}

	product, err := h.service.CreateProduct(c.UserContext(), in, file)
	if err != nil {
		return h.respondError(c, err)
	}

	h.lg.Info("Product created",
		zap.String("product_id", product.ID),
		zap.Bool("has_image", product.Image != nil),
	)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": msgCreated,
		"data":    product,
	})
}

func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	var createErr *services.CreateProductError
	if !errors.As(err, &createErr) {
		h.lg.Error("Product creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(h.failure(msgPersistenceFailed, err))
	}

	lg := h.lg.With(zap.Stringer("kind", createErr.Kind), zap.Error(err))

	switch createErr.Kind {
	case services.KindInvalidFileType:
		lg.Info("Rejected image")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": msgInvalidFileType})
	case services.KindFileTooLarge:
		lg.Info("Rejected image")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": msgFileTooLarge})
	case services.KindValidationFailed:
		lg.Info("Rejected product fields")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": msgValidationFailed,
			"errors":  createErr.Violations,
		})
	case services.KindSchemaValidationFailed:
		lg.Warn("Product rejected by schema")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": msgSchemaValidation,
			"errors":  createErr.Messages,
		})
	case services.KindDuplicateResource:
		lg.Warn("Duplicate product")
		return c.Status(fiber.StatusConflict).JSON(h.failure(msgDuplicate, err))
	case services.KindUploadFailed:
		lg.Error("S3 upload failed")
		return c.Status(fiber.StatusInternalServerError).JSON(h.failure(msgUploadFailed, err))
	case services.KindPersistenceError:
		lg.Error("Product creation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(h.failure(msgPersistenceFailed, err))
	default:
		lg.Error("Product creation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(h.failure(msgPersistenceFailed, err))
	}
}

// failure builds an error body, attaching the error detail only when
// exposeErrors is set.
func (h *ProductHandler) failure(message string, err error) fiber.Map {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if h.exposeErrors && err != nil {
		body["error"] = err.Error()
	}
	return body
}

func parseCreateRequest(c *fiber.Ctx) (models.ProductInput, *models.UploadedFile, error) {
	if c.Is("json") {
		in, err := parseJSON(c.Body())
		return in, nil, err
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return models.ProductInput{}, nil, errors.Wrap(err, "parse multipart form")
		}
		return parseMultipart(form)
	}

	// application/x-www-form-urlencoded
	args := c.Request().PostArgs()
	in := models.ProductInput{
		Name:     string(args.Peek("name")),
		Price:    string(args.Peek("price")),
		Category: string(args.Peek("category")),
	}
	if args.Has("description") {
		description := string(args.Peek("description"))
		in.Description = &description
	}
	return in, nil, nil
}

func parseMultipart(form *multipart.Form) (models.ProductInput, *models.UploadedFile, error) {
	value := func(key string) (string, bool) {
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}

	var in models.ProductInput
	in.Name, _ = value("name")
	in.Price, _ = value("price")
	in.Category, _ = value("category")
	if description, ok := value("description"); ok {
		in.Description = &description
	}

	headers := form.File[ImageField]
	if len(headers) == 0 {
		return in, nil, nil
	}
	file, err := readUploadedFile(headers[0])
	if err != nil {
		return in, nil, err
	}
	return in, file, nil
}

func readUploadedFile(header *multipart.FileHeader) (*models.UploadedFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}

	mimeType := validation.MediaType(header.Header.Get("Content-Type"))
	if mimeType == "" {
		// Parts sent without a Content-Type are sniffed from their content.
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			mimeType = kind.MIME.Value
		} else {
			mimeType = "application/octet-stream"
		}
	}

	return &models.UploadedFile{
		Data:     data,
		MimeType: mimeType,
		Size:     header.Size,
	}, nil
}

// parseJSON accepts price as either a JSON number or a string.
func parseJSON(body []byte) (models.ProductInput, error) {
	var raw struct {
		Name        string          `json:"name"`
		Price       json.RawMessage `json:"price"`
		Description *string         `json:"description"`
		Category    string          `json:"category"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.ProductInput{}, errors.Wrap(err, "decode json")
	}

	in := models.ProductInput{
		Name:        raw.Name,
		Description: raw.Description,
		Category:    raw.Category,
	}

	switch {
	case len(raw.Price) == 0 || string(raw.Price) == "null":
	case raw.Price[0] == '"':
		if err := json.Unmarshal(raw.Price, &in.Price); err != nil {
			return models.ProductInput{}, errors.Wrap(err, "decode price")
		}
	default:
		var n json.Number
		if err := json.Unmarshal(raw.Price, &n); err != nil {
			return models.ProductInput{}, errors.Wrap(err, "decode price")
		}
		in.Price = n.String()
	}

	return in, nil
}
