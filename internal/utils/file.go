package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	allowedDocumentExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}
	allowedDocumentTypes      = map[string]bool{
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
		"application/pdf": true,
	}
)

// ValidateDocumentFile accepts JPG, PNG and PDF files up to maxSize bytes.
func ValidateDocumentFile(file *multipart.FileHeader, maxSize int64) error {
	if file.Size <= 0 {
		return fmt.Errorf("file is empty")
	}
	if file.Size > maxSize {
		return fmt.Errorf("file size must not exceed %s", FormatSize(maxSize))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentExtensions[ext] {
		return fmt.Errorf("only JPG, PNG or PDF files are allowed")
	}

	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType != "" && contentType != "application/octet-stream" && !allowedDocumentTypes[contentType] {
		return fmt.Errorf("file type not allowed: %s", contentType)
	}

	return nil
}

// GenerateUniqueFilename keeps only the lower-cased extension of the
// original name.
func GenerateUniqueFilename(originalName string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
}

func SaveUploadedFile(file *multipart.FileHeader, destDir, filename string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	destPath := filepath.Join(destDir, filename)
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

func FormatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
