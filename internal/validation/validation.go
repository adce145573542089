// Package validation holds the product field, schema and image checks.
//
// Field and schema validation are two independent passes over the same
// product data. Both implement Validator and both report every violated
// field instead of stopping at the first one.
package validation

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is a single failed rule on a single field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is an ordered list of field violations. A non-empty list is
// usable as an error.
type Violations []Violation

func (v Violations) Error() string {
	return strings.Join(v.Messages(), "; ")
}

// Messages returns the violation messages in order.
func (v Violations) Messages() []string {
	out := make([]string, 0, len(v))
	for _, violation := range v {
		out = append(out, violation.Message)
	}
	return out
}

// Validator checks a value and returns every violation found, or nil.
type Validator[T any] interface {
	Validate(v T) Violations
}

var (
	productNamePattern = regexp.MustCompile(`^[A-Za-z0-9\s\-_.,()]+$`)
	categoryPattern    = regexp.MustCompile(`^[A-Za-z0-9\s\-_]+$`)
	imageURLPattern    = regexp.MustCompile(`^https?://.+`)
	// Plain decimal or exponent notation only; no hex, underscores or NaN/Inf.
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// newEngine returns a validator with the product-specific tags registered
// and field names reported by their json names.
func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("productname", func(fl validator.FieldLevel) bool {
		return productNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return categoryPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		return decimalPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, ok := ParsePrice(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return imageURLPattern.MatchString(fl.Field().String())
	})

	return v
}

// ParsePrice coerces a raw price to a float. It reports false unless the
// value is a plain decimal number strictly greater than zero.
func ParsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if !decimalPattern.MatchString(raw) {
		return 0, false
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, price > 0
}

// collect turns a validator error into violations using the message table.
// The table is keyed by field name, then by the failing tag.
func collect(err error, messages map[string]map[string]string) Violations {
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return Violations{{Message: err.Error()}}
	}

	out := make(Violations, 0, len(validationErrors))
	for _, e := range validationErrors {
		msg, ok := messages[e.Field()][e.Tag()]
		if !ok {
			msg = e.Field() + " is invalid"
		}
		out = append(out, Violation{Field: e.Field(), Message: msg})
	}
	return out
}
