package bucket

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 reads an AWS S3 bucket using the ambient credential chain
// (env vars, shared config, instance role).
type S3 struct {
	name   string
	region string
	client *s3.Client
}

func NewS3(ctx context.Context, bucketName string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &S3{
		name:   bucketName,
		region: cfg.Region,
		client: s3.NewFromConfig(cfg),
	}, nil
}

func (s *S3) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.name),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", s.name, err)
		}
		for _, item := range page.Contents {
			key := aws.ToString(item.Key)
			objects = append(objects, Object{
				Key:       key,
				PublicURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.name, s.region, key),
			})
		}
	}
	return objects, nil
}

func (s *S3) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}
