package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/andresuchdata/stockpilot/internal/config"
	cmstorage "github.com/chartmuseum/storage"
)

const defaultRegion = "us-east-1"

// S3Client implements ObjectStorage with chartmuseum's Amazon backend, for
// providers that need path-style addressing.
type S3Client struct {
	backend cmstorage.Backend
}

func NewS3Client(cfg config.StorageConfig) (*S3Client, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	host, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	scheme := "https"
	if !secure {
		scheme = "http"
	}
	endpoint := fmt.Sprintf("%s://%s", scheme, host)

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	// the amazon backend only reads credentials from the environment
	os.Setenv("AWS_ACCESS_KEY_ID", cfg.AccessKey)
	os.Setenv("AWS_SECRET_ACCESS_KEY", cfg.SecretKey)
	os.Setenv("AWS_REGION", region)
	os.Setenv("AWS_DEFAULT_REGION", region)

	forcePathStyle := true
	backend := cmstorage.NewAmazonS3BackendWithOptions(
		cfg.Bucket,
		"",
		region,
		endpoint,
		"",
		&cmstorage.AmazonS3Options{S3ForcePathStyle: &forcePathStyle},
	)

	return &S3Client{backend: backend}, nil
}

func (c *S3Client) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	files, err := c.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("s3 list failed: %w", err)
	}
	results := make([]ObjectInfo, 0, len(files))
	for _, object := range files {
		// the backend reports paths relative to prefix
		results = append(results, ObjectInfo{
			Key:  path.Join(prefix, object.Path),
			Size: int64(len(object.Content)),
		})
	}
	return results, nil
}

func (c *S3Client) UploadObject(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("s3 upload %s failed: %w", key, err)
	}
	return nil
}

var _ ObjectStorage = (*S3Client)(nil)
