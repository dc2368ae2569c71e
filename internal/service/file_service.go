package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrFileNotFound = errors.New("file not found")

// FileService resolves product image filenames to paths inside the fixed
// uploads directory. Binary storage itself is out of scope; the catalog only
// references images by URL.
type FileService interface {
	ResolveProductImage(filename string) (string, error)
}

type fileService struct {
	uploadsDir string
}

// NewFileService creates a new instance of FileService
func NewFileService(uploadsDir string) FileService {
	return &fileService{uploadsDir: uploadsDir}
}

// ResolveProductImage returns the on-disk path for a product image filename,
// or ErrFileNotFound when no such file exists. Filenames containing path
// separators are rejected so a caller can never escape the uploads
// directory.
func (s *fileService) ResolveProductImage(filename string) (string, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, filename)
	}

	path := filepath.Join(s.uploadsDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, filename)
	}

	return path, nil
}
