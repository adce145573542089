package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the object storage connection settings.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string

	// Endpoint overrides the AWS regional endpoint, e.g. "localhost:9000"
	// for MinIO. Empty means "s3.<region>.amazonaws.com".
	Endpoint string
	// PublicBaseURL is the browser-facing prefix for uploaded objects when
	// Endpoint is not AWS. Empty means the virtual-hosted AWS URL.
	PublicBaseURL string
	UseSSL        bool
}

// Missing returns the names of the required settings that are empty.
func (c Config) Missing() []string {
	var missing []string
	if c.Region == "" {
		missing = append(missing, "AWS_REGION")
	}
	if c.AccessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if c.Bucket == "" {
		missing = append(missing, "S3_BUCKET_NAME")
	}
	return missing
}

// objectPutter is the subset of *minio.Client used for uploads.
type objectPutter interface {
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Storage implements Storage on top of an S3-compatible bucket. It holds
// only immutable configuration and is safe for concurrent use.
type S3Storage struct {
	client     objectPutter
	bucket     string
	region     string
	publicBase string
	newKey     func(mimeType string) (string, error)
}

// NewS3Storage validates cfg and builds the client. It does not contact the
// remote service.
func NewS3Storage(cfg Config) (*S3Storage, error) {
	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, errors.Errorf("missing required storage settings: %s", strings.Join(missing, ", "))
	}

	endpoint := cfg.Endpoint
	bucketLookup := minio.BucketLookupAuto
	if endpoint == "" {
		endpoint = fmt.Sprintf("s3.%s.amazonaws.com", cfg.Region)
		bucketLookup = minio.BucketLookupDNS
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create s3 client")
	}

	return newS3Storage(client, cfg), nil
}

func newS3Storage(client objectPutter, cfg Config) *S3Storage {
	return &S3Storage{
		client:     client,
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		newKey:     NewObjectKey,
	}
}

// Upload writes data under a freshly generated key in a single request and
// returns the public URL of the object. It never retries.
func (s *S3Storage) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", errors.Wrap(ErrInvalidUploadInput, "file data is required")
	}
	if mimeType == "" {
		return "", errors.Wrap(ErrInvalidUploadInput, "mime type is required")
	}

	key, err := s.newKey(mimeType)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}

	return s.PublicURL(key), nil
}

// PublicURL returns the URL under which key is served.
func (s *S3Storage) PublicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
