package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/andresuchdata/stockpilot/internal/config"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations report publishing needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	UploadObject(ctx context.Context, key string, data []byte) error
}

// New picks the backend named by cfg.Driver: "minio" (default) or "s3".
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "minio":
		return NewMinioClient(cfg)
	case "s3":
		return NewS3Client(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// PublishResult describes an upload and the reports already stored next to it.
type PublishResult struct {
	Key      string
	Replaced bool
	Existing int
}

// Publish uploads data under key after listing the objects that share its
// directory, so callers can tell whether an earlier report was replaced.
func Publish(ctx context.Context, store ObjectStorage, key string, data []byte) (PublishResult, error) {
	result := PublishResult{Key: key}

	dir := path.Dir(key)
	prefix := ""
	if dir != "." {
		prefix = dir + "/"
	}
	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return result, fmt.Errorf("list %q: %w", prefix, err)
	}
	result.Existing = len(objects)
	for _, obj := range objects {
		if obj.Key == key {
			result.Replaced = true
			break
		}
	}

	if err := store.UploadObject(ctx, key, data); err != nil {
		return result, fmt.Errorf("upload %q: %w", key, err)
	}
	return result, nil
}

// Key joins the configured prefix with a file name.
func Key(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func validate(cfg config.StorageConfig) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return fmt.Errorf("storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("storage bucket must be provided")
	}
	return nil
}

// splitEndpoint strips any scheme from endpoint. An explicit scheme wins
// over useSSL.
func splitEndpoint(endpoint string, useSSL bool) (host string, secure bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false
	default:
		return strings.TrimPrefix(endpoint, "//"), useSSL
	}
}

func contentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
