package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for S3/MinIO storage
type S3Config struct {
	BucketName     string
	Region         string
	Endpoint       string // internal endpoint (e.g. minio:9000)
	PublicEndpoint string // endpoint clients can reach (e.g. localhost:9000)
	AccessKey      string
	SecretKey      string
	UseSSL         bool
}

// S3Storage stores uploads in AWS S3 or MinIO
type S3Storage struct {
	client *s3.Client
	config S3Config
}

// NewS3Storage creates a new S3 storage implementation
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		// MinIO / LocalStack
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		)
	} else {
		awsCfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !cfg.UseSSL && !hasHTTPPrefix(endpoint) {
				endpoint = "http://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true // required for MinIO
		}
	})

	return &S3Storage{
		client: client,
		config: cfg,
	}, nil
}

// UploadFile uploads a file to S3 and returns the public URL
func (s *S3Storage) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	if s.config.PublicEndpoint != "" {
		prefix := ""
		if !hasHTTPPrefix(s.config.PublicEndpoint) {
			prefix = "http://"
		}
		return fmt.Sprintf("%s%s/%s/%s", prefix, s.config.PublicEndpoint, s.config.BucketName, key), nil
	}

	if s.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.config.Endpoint, s.config.BucketName, key), nil
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.BucketName, s.config.Region, key), nil
}

// DeleteFile deletes a file from S3
func (s *S3Storage) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})
	return err
}

// GetKeyFromURL extracts the storage key from a public URL
func (s *S3Storage) GetKeyFromURL(fileUrl string) (string, error) {
	checkPrefix := func(endpoint string) (string, bool) {
		if endpoint == "" {
			return "", false
		}
		prefixBase := endpoint
		if !hasHTTPPrefix(prefixBase) {
			prefixBase = "http://" + prefixBase
		}

		prefix := fmt.Sprintf("%s/%s/", prefixBase, s.config.BucketName)
		if strings.HasPrefix(fileUrl, prefix) {
			return strings.TrimPrefix(fileUrl, prefix), true
		}
		return "", false
	}

	if key, ok := checkPrefix(s.config.PublicEndpoint); ok {
		return key, nil
	}
	if key, ok := checkPrefix(s.config.Endpoint); ok {
		return key, nil
	}

	if s.config.Endpoint == "" {
		prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.config.BucketName, s.config.Region)
		if strings.HasPrefix(fileUrl, prefix) {
			return strings.TrimPrefix(fileUrl, prefix), nil
		}
	}

	return "", fmt.Errorf("url does not match expected format: %s", fileUrl)
}

func hasHTTPPrefix(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
