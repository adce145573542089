package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katalog/internal/models"
	"katalog/internal/validation"
)

func strPtr(s string) *string { return &s }

func validInput() models.ProductInput {
	return models.ProductInput{
		Name:        "Desk Lamp (LED)",
		Price:       "19.99",
		Description: strPtr("Warm white, dimmable"),
		Category:    "Home-Office",
	}
}

func TestFieldValidator_Valid(t *testing.T) {
	v := validation.NewFieldValidator()

	assert.Empty(t, v.Validate(validInput()))

	in := validInput()
	in.Description = nil
	assert.Empty(t, v.Validate(in), "description is optional")
}

func TestFieldValidator_NameLength(t *testing.T) {
	v := validation.NewFieldValidator()

	in := validInput()
	in.Name = "AB"
	violations := v.Validate(in)
	require.Len(t, violations, 1)
	assert.Equal(t, "name", violations[0].Field)
	assert.Equal(t, "Product name must be between 3 and 100 characters", violations[0].Message)

	in.Name = "ABC"
	assert.Empty(t, v.Validate(in))

	in.Name = "  AB  "
	assert.Len(t, v.Validate(in), 1, "whitespace is trimmed before the length check")

	in.Name = strings.Repeat("a", 101)
	assert.Len(t, v.Validate(in), 1)
}

func TestFieldValidator_NamePattern(t *testing.T) {
	v := validation.NewFieldValidator()

	in := validInput()
	in.Name = "Lamp <script>"
	violations := v.Validate(in)
	require.Len(t, violations, 1)
	assert.Equal(t, "Product name contains invalid characters", violations[0].Message)
}

func TestFieldValidator_Price(t *testing.T) {
	v := validation.NewFieldValidator()

	tests := []struct {
		price   string
		message string
	}{
		{"", "Price is required"},
		{"   ", "Price is required"},
		{"0", "Price must be a positive number greater than 0"},
		{"-5", "Price must be a positive number greater than 0"},
		{"abc", "Price must be a positive number greater than 0"},
		{"NaN", "Price must be a positive number greater than 0"},
		{"Inf", "Price must be a positive number greater than 0"},
		{"1_000", "Price must be a positive number greater than 0"},
		{"0x1p4", "Price must be a positive number greater than 0"},
		{"0x_1p0", "Price must be a positive number greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			in := validInput()
			in.Price = tt.price
			violations := v.Validate(in)
			require.Len(t, violations, 1)
			assert.Equal(t, "price", violations[0].Field)
			assert.Equal(t, tt.message, violations[0].Message)
		})
	}

	for _, ok := range []string{"0.01", "12", "12.", ".5", "+3.5", "1e2", " 7.25 "} {
		in := validInput()
		in.Price = ok
		assert.Empty(t, v.Validate(in), ok)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"19.99", 19.99, true},
		{" 12.5 ", 12.5, true},
		{"1e2", 100, true},
		{"0", 0, false},
		{"1_000", 0, false},
		{"0x1p4", 0, false},
		{"0x_1p0", 0, false},
		{"Infinity", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := validation.ParsePrice(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFieldValidator_Description(t *testing.T) {
	v := validation.NewFieldValidator()

	in := validInput()
	in.Description = strPtr(strings.Repeat("x", 1001))
	violations := v.Validate(in)
	require.Len(t, violations, 1)
	assert.Equal(t, "description", violations[0].Field)

	in.Description = strPtr(strings.Repeat("x", 1000) + "   ")
	assert.Empty(t, v.Validate(in))
}

func TestFieldValidator_Category(t *testing.T) {
	v := validation.NewFieldValidator()

	in := validInput()
	in.Category = "a"
	violations := v.Validate(in)
	require.Len(t, violations, 1)
	assert.Equal(t, "Category must be between 2 and 50 characters", violations[0].Message)

	in.Category = "toys.games"
	violations = v.Validate(in)
	require.Len(t, violations, 1)
	assert.Equal(t, "Category contains invalid characters", violations[0].Message)
}

func TestFieldValidator_CollectsAll(t *testing.T) {
	v := validation.NewFieldValidator()

	violations := v.Validate(models.ProductInput{
		Name:        "x",
		Price:       "free",
		Description: strPtr(strings.Repeat("x", 2000)),
	})

	require.Len(t, violations, 4)
	fields := make([]string, 0, len(violations))
	for _, violation := range violations {
		fields = append(fields, violation.Field)
	}
	assert.Equal(t, []string{"name", "price", "description", "category"}, fields)
	assert.Equal(t, "Category is required", violations[3].Message)
}

func TestTrimInput(t *testing.T) {
	in := validation.TrimInput(models.ProductInput{
		Name:        "  Chair ",
		Price:       " 10 ",
		Description: strPtr("  comfy  "),
		Category:    " Furniture ",
	})

	assert.Equal(t, "Chair", in.Name)
	assert.Equal(t, "10", in.Price)
	assert.Equal(t, "comfy", *in.Description)
	assert.Equal(t, "Furniture", in.Category)

	assert.Nil(t, validation.TrimInput(models.ProductInput{}).Description)
}
