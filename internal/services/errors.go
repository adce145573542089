package services

import (
	"strings"

	"katalog/internal/validation"
)

// ErrorKind identifies which step of product creation failed.
type ErrorKind int

const (
	KindInvalidFileType ErrorKind = iota + 1
	KindFileTooLarge
	KindValidationFailed
	KindUploadFailed
	KindSchemaValidationFailed
	KindDuplicateResource
	KindPersistenceError
)

var kindNames = map[ErrorKind]string{
	KindInvalidFileType:        "invalid file type",
	KindFileTooLarge:           "file too large",
	KindValidationFailed:       "validation failed",
	KindUploadFailed:           "upload failed",
	KindSchemaValidationFailed: "schema validation failed",
	KindDuplicateResource:      "duplicate resource",
	KindPersistenceError:       "persistence error",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// CreateProductError is returned by ProductService.CreateProduct for every
// failure. Exactly one of Violations (KindValidationFailed) or Messages
// (KindSchemaValidationFailed) is set for validation kinds.
type CreateProductError struct {
	Kind       ErrorKind
	Violations validation.Violations
	Messages   []string
	Err        error
}

func (e *CreateProductError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch {
	case len(e.Violations) > 0:
		b.WriteString(": ")
		b.WriteString(e.Violations.Error())
	case len(e.Messages) > 0:
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *CreateProductError) Unwrap() error {
	return e.Err
}
