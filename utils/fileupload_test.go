package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a multipart.FileHeader with the given declared content type
func createTestFileHeader(filename, contentType string, size int64, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)
	defer form.RemoveAll()

	if len(form.File["file"]) > 0 {
		fileHeader := form.File["file"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateImageFile_AllowedTypes(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/gif", "image/webp", "IMAGE/PNG"} {
		t.Run(ct, func(t *testing.T) {
			content := []byte("fake image content")
			fileHeader := createTestFileHeader("photo.bin", ct, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			assert.NoError(t, ValidateImageFile(fileHeader))
		})
	}
}

func TestValidateImageFile_FileTooLarge(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("large.png", "image/png", MaxFileSize+1, content)
	require.NotNil(t, fileHeader)

	err := ValidateImageFile(fileHeader)
	require.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "FILE_TOO_LARGE", fileErr.Code)
	assert.Contains(t, fileErr.Message, "5 MB")
}

func TestValidateImageFile_ExactlyMaxSize(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("edge.png", "image/png", MaxFileSize, content)
	require.NotNil(t, fileHeader)

	assert.NoError(t, ValidateImageFile(fileHeader))
}

func TestValidateImageFile_InvalidFormat(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"pdf", "report.pdf", "application/pdf"},
		{"svg", "icon.svg", "image/svg+xml"},
		{"png extension with text type", "fake.png", "text/plain"},
		{"octet stream", "photo.jpg", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte("content")
			fileHeader := createTestFileHeader(tt.filename, tt.contentType, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			err := ValidateImageFile(fileHeader)
			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
		})
	}
}

func TestDeclaredContentType_StripsParameters(t *testing.T) {
	content := []byte("x")
	fileHeader := createTestFileHeader("a.png", "image/png; charset=binary", 1, content)
	require.NotNil(t, fileHeader)

	assert.Equal(t, "image/png", DeclaredContentType(fileHeader))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\My Photo (1).PNG`, "MyPhoto1.png"},
		{"broken sink!!.jpeg", "brokensink.jpeg"},
		{"ภาพถ่าย.png", "file.png"},
		{"noext", "noext"},
		{".hidden", "file.hidden"},
		{"", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSaveFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	err := SaveFile([]byte("hello"), dir, "../escape.png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "escape.png"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestGetUploadURL(t *testing.T) {
	assert.Equal(t, "", GetUploadURL(""))
	assert.Equal(t, "/api/v1/uploads/a.png", GetUploadURL("a.png"))
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{
		Code:    "TEST_CODE",
		Message: "Test error message",
	}

	assert.Equal(t, "Test error message", err.Error())
}
