package utils

import (
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestValidateDocumentFile(t *testing.T) {
	const max = 1 << 20

	assert.NoError(t, ValidateDocumentFile(header("front.JPG", "image/jpeg", 1024), max))
	assert.NoError(t, ValidateDocumentFile(header("scan.pdf", "application/pdf", max), max))
	assert.NoError(t, ValidateDocumentFile(header("photo.png", "", 10), max))

	err := ValidateDocumentFile(header("big.png", "image/png", max+1), max)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1MB")

	assert.Error(t, ValidateDocumentFile(header("anim.gif", "image/gif", 10), max))
	assert.Error(t, ValidateDocumentFile(header("front.jpg", "text/html", 10), max))
	assert.Error(t, ValidateDocumentFile(header("empty.png", "image/png", 0), max))
}

func TestGenerateUniqueFilename(t *testing.T) {
	a := GenerateUniqueFilename("My Aadhaar.JPEG")
	b := GenerateUniqueFilename("My Aadhaar.JPEG")
	assert.NotEqual(t, a, b)
	assert.Equal(t, ".jpeg", filepath.Ext(a))
	assert.NotContains(t, a, "Aadhaar")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "1MB", FormatSize(1<<20))
	assert.Equal(t, "512KB", FormatSize(512<<10))
	assert.Equal(t, "1000 bytes", FormatSize(1000))
}

func TestGenerateQRCodeImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	name, err := GenerateQRCodeImage("ANPL|bundle-1", dir, "bundle-1")
	require.NoError(t, err)
	assert.Equal(t, "bundle-1.png", name)

	info, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPasswordRoundTrip(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)

	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword("secret123", hash))
	assert.Error(t, CheckPassword("wrong-pass", hash))
}
