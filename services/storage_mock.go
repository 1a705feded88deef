package services

import (
	"context"
	"fmt"
	"sync"
)

// MockStorage is an in-memory Storage for testing
type MockStorage struct {
	uploadedFiles map[string][]byte // map of key to file content
	failFor       map[string]bool   // filenames whose upload should fail
	mu            sync.RWMutex
}

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		uploadedFiles: make(map[string][]byte),
		failFor:       make(map[string]bool),
	}
}

// FailUploadsFor makes subsequent uploads of the given (sanitised) filename fail
func (m *MockStorage) FailUploadsFor(filename string) {
	m.mu.Lock()
	m.failFor[filename] = true
	m.mu.Unlock()
}

// UploadFile simulates uploading a file
func (m *MockStorage) UploadFile(_ context.Context, content []byte, filename, folder, _ string) (*UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failFor[filename] {
		return nil, fmt.Errorf("mock upload failure for %s", filename)
	}

	key := fmt.Sprintf("%s/mock_%d_%s", folder, len(m.uploadedFiles), filename)
	m.uploadedFiles[key] = content

	return &UploadResult{
		URL: fmt.Sprintf("https://test-bucket.s3.ap-southeast-1.amazonaws.com/%s", key),
		Key: key,
	}, nil
}

// DeleteFile simulates deleting a file
func (m *MockStorage) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.uploadedFiles, key)
	m.mu.Unlock()
	return nil
}

// GetUploadedFiles returns all uploaded files (for testing assertions)
func (m *MockStorage) GetUploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.uploadedFiles))
	for k, v := range m.uploadedFiles {
		files[k] = v
	}
	return files
}

// FileExists checks if a file exists in mock storage
func (m *MockStorage) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedFiles[key]
	return exists
}
