package config

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrAWSRegionMissing is returned when an AWS client is requested without a region.
var ErrAWSRegionMissing = errors.New("AWS_REGION is not set")

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
}

// LoadAWSConfig loads the shared AWS configuration for the configured region.
func (c *Config) LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	if c.AWSRegion == "" {
		return aws.Config{}, ErrAWSRegionMissing
	}
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.AWSRegion))
}

// NewS3Config initializes the S3 client for label archiving.
// It returns nil, nil when no bucket is configured.
func (c *Config) NewS3Config(ctx context.Context) (*S3Config, error) {
	if c.LabelBucket == "" {
		return nil, nil
	}
	awsCfg, err := c.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: c.LabelBucket,
	}, nil
}

// NewRekognitionClient initializes the Rekognition client used for OCR.
func (c *Config) NewRekognitionClient(ctx context.Context) (*rekognition.Client, error) {
	awsCfg, err := c.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return rekognition.NewFromConfig(awsCfg), nil
}
