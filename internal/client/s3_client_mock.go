package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockS3Client implements S3ClientInterface for testing without AWS credentials
type MockS3Client struct {
	Bucket   string
	Region   string
	Endpoint string

	// Optional function overrides for custom test behavior
	GenerateAttachmentKeyFunc func(quoteID, fileExt string) string
	UploadFileFunc            func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFileFunc            func(ctx context.Context, key string) error
	GetFileURLFunc            func(key string) string
	KeyFromURLFunc            func(url string) string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket: "test-bucket",
		Region: "eu-west-2",
	}
}

// GenerateAttachmentKey generates a unique file key for S3 storage
func (m *MockS3Client) GenerateAttachmentKey(quoteID, fileExt string) string {
	if m.GenerateAttachmentKeyFunc != nil {
		return m.GenerateAttachmentKeyFunc(quoteID, fileExt)
	}

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

// UploadFile simulates file upload
func (m *MockS3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, file, contentType)
	}
	return m.GetFileURL(key), nil
}

// DeleteFile simulates file deletion
func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

// GetFileURL returns the public URL for a file
func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("%s/%s/%s", m.Endpoint, m.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// KeyFromURL recovers the object key from a mock URL
func (m *MockS3Client) KeyFromURL(url string) string {
	if m.KeyFromURLFunc != nil {
		return m.KeyFromURLFunc(url)
	}
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", m.Bucket, m.Region)
	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		prefix = fmt.Sprintf("%s/%s/", m.Endpoint, m.Bucket)
	}
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

// Ensure MockS3Client implements S3ClientInterface
var _ S3ClientInterface = (*MockS3Client)(nil)
