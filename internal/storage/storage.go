// Package storage uploads product images to S3-compatible object storage.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/go-faster/errors"
)

// ErrInvalidUploadInput is returned when Upload is called without data or
// without a usable MIME type.
var ErrInvalidUploadInput = errors.New("invalid upload input")

// UploadError wraps a failed write to the object store.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return "upload " + e.Key + ": " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Storage uploads an object and returns its public URL.
type Storage interface {
	Upload(ctx context.Context, data []byte, mimeType string) (string, error)
}

// NewObjectKey returns a random object name with the MIME subtype as its
// extension, e.g. "9f86d081884c7d659a2feaa0c55ad015.png".
func NewObjectKey(mimeType string) (string, error) {
	ext, err := extension(mimeType)
	if err != nil {
		return "", err
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	return hex.EncodeToString(buf) + "." + ext, nil
}

func extension(mimeType string) (string, error) {
	_, subtype, ok := strings.Cut(mimeType, "/")
	if !ok || subtype == "" {
		return "", errors.Wrapf(ErrInvalidUploadInput, "mime type %q has no subtype", mimeType)
	}
	return subtype, nil
}
