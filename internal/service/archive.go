package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// LabelArchive stores original label uploads.
type LabelArchive interface {
	Store(ctx context.Context, data []byte, contentType, extension string) (string, error)
}

// S3API is the subset of the S3 client used for archiving.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3LabelArchive uploads label images to an S3 bucket under labels/.
type S3LabelArchive struct {
	client S3API
	bucket string
}

func NewS3LabelArchive(client S3API, bucket string) *S3LabelArchive {
	return &S3LabelArchive{client: client, bucket: bucket}
}

// Store uploads data under labels/<uuid><extension> and returns the object key.
func (a *S3LabelArchive) Store(ctx context.Context, data []byte, contentType, extension string) (string, error) {
	key := fmt.Sprintf("labels/%s%s", uuid.NewString(), extension)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}
