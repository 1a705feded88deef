package services

import "context"

// UploadResult describes a stored object
type UploadResult struct {
	URL string
	Key string
}

// Storage is the object-storage collaborator used for ticket attachments
type Storage interface {
	// UploadFile stores content under folder and returns its public URL
	UploadFile(ctx context.Context, content []byte, filename, folder, contentType string) (*UploadResult, error)

	// DeleteFile removes a stored object by key
	DeleteFile(ctx context.Context, key string) error
}
