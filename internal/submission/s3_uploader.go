// internal/submission/s3_uploader.go
package submission

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3API is the part of the S3 client the uploader needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes attachments to a bucket and returns s3:// references.
type S3Uploader struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Uploader(client S3API, bucket, prefix string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (u *S3Uploader) Upload(ctx context.Context, ref ObjectRef, a *models.Attachment) (string, error) {
	if !a.Attached() {
		return "", apperrors.NewUploadFailedError(ref.Field, fmt.Errorf("attachment has no file"))
	}

	key := u.objectKey(ref, a.FileName)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(u.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(a.Handle.Data),
		ContentType: awssdk.String(a.ContentType),
		Metadata: map[string]string{
			"flow":          ref.Flow,
			"submission-id": ref.SubmissionID,
			"field":         ref.Field,
		},
	})
	if err != nil {
		return "", apperrors.NewUploadFailedError(ref.Field, err)
	}
	return "s3://" + u.bucket + "/" + key, nil
}

func (u *S3Uploader) objectKey(ref ObjectRef, fileName string) string {
	name := uuid.NewString()
	if ext := path.Ext(fileName); ext != "" {
		name += strings.ToLower(ext)
	}
	return path.Join(u.prefix, ref.Flow, ref.SubmissionID, ref.Field, name)
}
