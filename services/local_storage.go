package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kendall-kelly/repair-ticket-api/utils"
)

// LocalStorage writes attachments to a directory served by the uploads route
type LocalStorage struct {
	dir string
	now func() time.Time
}

// NewLocalStorage creates a LocalStorage rooted at dir
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir, now: time.Now}
}

// UploadFile saves content as {folder}_{timestamp}_{filename}
func (s *LocalStorage) UploadFile(_ context.Context, content []byte, filename, folder, _ string) (*UploadResult, error) {
	key := fmt.Sprintf("%s_%d_%s", strings.ReplaceAll(strings.Trim(folder, "/"), "/", "_"), s.now().UnixNano(), filename)

	if err := utils.SaveFile(content, s.dir, key); err != nil {
		return nil, err
	}

	return &UploadResult{URL: utils.GetUploadURL(key), Key: key}, nil
}

// DeleteFile removes a stored file; missing files are not an error
func (s *LocalStorage) DeleteFile(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
