package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/spec-kit/complaint-desk/internal/config"
	apperrors "github.com/spec-kit/complaint-desk/pkg/errorutil"
)

// S3ImageStore uploads images to an S3-compatible bucket (AWS S3 or MinIO).
type S3ImageStore struct {
	client   *s3.Client
	bucket   string
	prefix   string
	baseURL  string
	maxBytes int64
}

// NewS3ImageStore builds the store from the storage settings. optFns are
// applied to the S3 client options after the configured ones.
func NewS3ImageStore(ctx context.Context, cfg config.StorageConfig, optFns ...func(*s3.Options)) (*S3ImageStore, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.S3PathStyle
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	}}, optFns...)
	client := s3.NewFromConfig(awsCfg, opts...)

	return &S3ImageStore{
		client:   client,
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3KeyPrefix,
		baseURL:  objectBaseURL(cfg, region),
		maxBytes: cfg.MaxImageBytes,
	}, nil
}

// Store uploads the image under a random key and returns its public URL.
func (s *S3ImageStore) Store(ctx context.Context, upload Upload) (string, error) {
	contentType, err := checkUpload(&upload, s.maxBytes)
	if err != nil {
		return "", err
	}

	key := s.prefix + uuid.NewString() + strings.ToLower(filepath.Ext(upload.Filename))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(upload.Data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(upload.Data))),
	})
	if err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("upload image: %w", err))
	}
	return s.baseURL + "/" + key, nil
}

// objectBaseURL is the URL prefix under which uploaded keys are reachable.
func objectBaseURL(cfg config.StorageConfig, region string) string {
	if cfg.S3PublicBaseURL != "" {
		return strings.TrimRight(cfg.S3PublicBaseURL, "/")
	}
	if cfg.S3Endpoint != "" {
		endpoint := strings.TrimRight(cfg.S3Endpoint, "/")
		if cfg.S3PathStyle {
			return endpoint + "/" + cfg.S3Bucket
		}
		scheme, host, ok := strings.Cut(endpoint, "://")
		if !ok {
			return endpoint + "/" + cfg.S3Bucket
		}
		return scheme + "://" + cfg.S3Bucket + "." + host
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, region)
}
