package repositories_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"katalog/internal/database"
	"katalog/internal/models"
	"katalog/internal/repositories"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func strPtr(s string) *string { return &s }

func TestGORMProductRepository_Create(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := &models.Product{
		Name:        "  Standing Desk ",
		Price:       349.5,
		Description: " oak top ",
		Category:    " Office FURNITURE ",
		Image:       strPtr("https://bucket.s3.us-east-1.amazonaws.com/0123456789abcdef0123456789abcdef.png"),
	}
	require.NoError(t, repo.Create(context.Background(), product))

	assert.NotEmpty(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.False(t, product.UpdatedAt.IsZero())

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, "Standing Desk", stored.Name)
	assert.Equal(t, "oak top", stored.Description)
	assert.Equal(t, "office furniture", stored.Category)
	assert.Equal(t, 349.5, stored.Price)
	require.NotNil(t, stored.Image)
	assert.Equal(t, *product.Image, *stored.Image)
}

func TestGORMProductRepository_CreateWithoutImage(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := &models.Product{Name: "Mug", Price: 4, Category: "kitchen"}
	require.NoError(t, repo.Create(context.Background(), product))

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Nil(t, stored.Image)
	assert.Equal(t, "", stored.Description)
}

func TestGORMProductRepository_SchemaFailure(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	err := repo.Create(context.Background(), &models.Product{Name: "ab", Price: -1, Category: "x", Image: strPtr("not-a-url")})

	var createErr *repositories.CreateError
	require.True(t, errors.As(err, &createErr))
	assert.Equal(t, repositories.FailureSchema, createErr.Kind)
	assert.Equal(t, []string{
		"Product name must be at least 3 characters long",
		"Price must be a positive number",
		"Category must be at least 2 characters long",
		"Image must be a valid URL",
	}, createErr.Messages)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGORMProductRepository_Duplicate(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	first := &models.Product{ID: "4b5a7c1e-0000-4000-8000-000000000001", Name: "Mug", Price: 4, Category: "kitchen"}
	require.NoError(t, repo.Create(context.Background(), first))

	second := &models.Product{ID: first.ID, Name: "Other Mug", Price: 5, Category: "kitchen"}
	err := repo.Create(context.Background(), second)

	var createErr *repositories.CreateError
	require.True(t, errors.As(err, &createErr))
	assert.Equal(t, repositories.FailureDuplicate, createErr.Kind)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestGORMProductRepository_PersistenceFailure(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	require.NoError(t, db.Migrator().DropTable(&models.Product{}))

	err := repo.Create(context.Background(), &models.Product{Name: "Mug", Price: 4, Category: "kitchen"})

	var createErr *repositories.CreateError
	require.True(t, errors.As(err, &createErr))
	assert.Equal(t, repositories.FailurePersistence, createErr.Kind)
}
