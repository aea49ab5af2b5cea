package bucket

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCS reads a Google Cloud Storage bucket.
type GCS struct {
	name   string
	bucket *storage.BucketHandle
}

// NewGCS opens the bucket using the service-account credentials file.
func NewGCS(ctx context.Context, bucketName, credPath string) (*GCS, error) {
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{name: bucketName, bucket: client.Bucket(bucketName)}, nil
}

func (g *GCS) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	it := g.bucket.Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", g.name, err)
		}
		objects = append(objects, Object{
			Key:       attrs.Name,
			PublicURL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.name, attrs.Name),
		})
	}
	return objects, nil
}

func (g *GCS) Download(ctx context.Context, key string) ([]byte, error) {
	rc, err := g.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}
