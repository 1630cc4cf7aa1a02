// internal/common/aws/s3.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client stores submission attachments.
type S3Client struct {
	client *s3.Client
}

func NewS3Client(cfg awssdk.Config) *S3Client {
	return &S3Client{client: s3.NewFromConfig(cfg)}
}

func (c *S3Client) PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return c.client.PutObject(ctx, input, optFns...)
}
