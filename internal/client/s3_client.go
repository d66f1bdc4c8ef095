package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	appConfig "quote-pipeline-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3ClientInterface defines the interface for attachment storage
type S3ClientInterface interface {
	GenerateAttachmentKey(quoteID, fileExt string) string
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
	KeyFromURL(url string) string
}

// S3Client wraps the AWS S3 client and implements S3ClientInterface
type S3Client struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string // set when targeting a local MinIO
}

// NewS3Client creates a new S3 client
func NewS3Client(cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		// MinIO requires explicit credentials
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for MinIO endpoint")
		}

		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
			config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:               cfg.Endpoint,
						HostnameImmutable: true,
						SigningRegion:     cfg.Region,
					}, nil
				},
			)),
		)
	} else {
		// AWS SDK default credential chain (IAM role, ~/.aws/credentials)
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true // Required for MinIO
		}
	})

	return &S3Client{
		client:   s3Client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// GenerateAttachmentKey generates a unique S3 key for a quote attachment.
// Format: quotes/{quoteId}/{year}/{month}/{uuid}_{timestamp}{ext}
func (c *S3Client) GenerateAttachmentKey(quoteID, fileExt string) string {
	now := time.Now()
	return fmt.Sprintf("quotes/%s/%s/%s/%s_%d%s",
		quoteID,
		now.Format("2006"),
		now.Format("01"),
		uuid.New().String(),
		now.Unix(),
		fileExt,
	)
}

// UploadFile uploads a file to S3 and returns its public URL
func (c *S3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return c.GetFileURL(key), nil
}

// DeleteFile deletes a file from S3
func (c *S3Client) DeleteFile(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the public URL for a stored key
func (c *S3Client) GetFileURL(key string) string {
	if c.endpoint != "" {
		// MinIO path-style URL, e.g. http://localhost:9000/bucket/key
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

// KeyFromURL recovers the object key from a URL this client produced.
// Returns "" for URLs that do not match the bucket.
func (c *S3Client) KeyFromURL(url string) string {
	var prefix string
	if c.endpoint != "" {
		prefix = fmt.Sprintf("%s/%s/", strings.TrimSuffix(c.endpoint, "/"), c.bucket)
	} else {
		prefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", c.bucket, c.region)
	}
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
