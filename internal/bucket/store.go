// Package bucket abstracts the object store the loader reads from.
// The production store is a GCS bucket addressed by a service-account
// credentials file; an S3 backend exists for stacks hosted on AWS.
package bucket

import (
	"context"
	"fmt"
)

// Object is one stored object, addressed by its full key.
type Object struct {
	Key       string
	PublicURL string
}

// Store lists and downloads objects from a single bucket.
type Store interface {
	List(ctx context.Context) ([]Object, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

// Open returns the store for the named provider: "gcs" (credentials
// file at credPath) or "s3" (ambient AWS configuration).
func Open(ctx context.Context, provider, bucketName, credPath string) (Store, error) {
	switch provider {
	case "gcs":
		return NewGCS(ctx, bucketName, credPath)
	case "s3":
		return NewS3(ctx, bucketName)
	default:
		return nil, fmt.Errorf("unknown bucket provider %q (want gcs or s3)", provider)
	}
}
