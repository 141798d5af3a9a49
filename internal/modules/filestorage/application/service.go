package application

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/minhquang4309/social-be/internal/modules/filestorage/domain"
)

// Image uploads are the only kind this service accepts.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// FileService provides high-level upload operations for user media
type FileService struct {
	storage domain.FileStorage
}

// NewFileService creates a new file service
func NewFileService(storage domain.FileStorage) *FileService {
	return &FileService{storage: storage}
}

// UploadImage stores an image under folder with a generated key and returns
// the public URL and the key.
func (s *FileService) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, string, error) {
	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return "", "", domain.ErrUnsupportedContentType
	}

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	url, err := s.storage.UploadFile(ctx, key, file, contentType)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// Delete removes a stored file by key
func (s *FileService) Delete(ctx context.Context, key string) error {
	return s.storage.DeleteFile(ctx, key)
}

// DeleteByURL removes a stored file given its public URL
func (s *FileService) DeleteByURL(ctx context.Context, fileURL string) error {
	key, err := s.storage.GetKeyFromURL(fileURL)
	if err != nil {
		return err
	}
	return s.storage.DeleteFile(ctx, key)
}
