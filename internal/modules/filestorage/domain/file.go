package domain

import (
	"context"
	"errors"
	"io"
)

// File represents stored file metadata
type File struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// FileStorage abstracts blob storage for user-uploaded images.
// Implemented by S3/MinIO and the local filesystem.
type FileStorage interface {
	// UploadFile stores the file under key and returns the public URL
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)

	// DeleteFile removes a file by its key
	DeleteFile(ctx context.Context, key string) error

	// GetKeyFromURL extracts the storage key from a public URL
	GetKeyFromURL(url string) (string, error)
}

var ErrUnsupportedContentType = errors.New("unsupported content type")
