package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/kendall-kelly/repair-ticket-api/models"
	"github.com/kendall-kelly/repair-ticket-api/utils"
)

// AttachmentFolder is the storage folder for ticket photos
const AttachmentFolder = "repair-tickets"

// AttachmentUploader validates uploaded photos and pushes them to Storage
type AttachmentUploader struct {
	storage Storage
	folder  string
}

// NewAttachmentUploader creates an uploader writing to AttachmentFolder
func NewAttachmentUploader(storage Storage) *AttachmentUploader {
	return &AttachmentUploader{storage: storage, folder: AttachmentFolder}
}

// Upload validates, sanitises and stores one file. Validation failures are
// returned as *utils.FileUploadError.
func (u *AttachmentUploader) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*models.Attachment, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, utils.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) > utils.MaxFileSize {
		return nil, &utils.FileUploadError{Code: "FILE_TOO_LARGE", Message: "File size exceeds maximum allowed size of 5 MB"}
	}

	filename := utils.SanitizeFilename(fileHeader.Filename)
	contentType := utils.DeclaredContentType(fileHeader)

	result, err := u.storage.UploadFile(ctx, content, filename, u.folder, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	return &models.Attachment{
		Filename:   filename,
		URL:        result.URL,
		StorageKey: result.Key,
		Size:       int64(len(content)),
		MimeType:   contentType,
	}, nil
}

// Discard removes already-stored attachments, best effort
func (u *AttachmentUploader) Discard(ctx context.Context, attachments []models.Attachment) []error {
	var errs []error
	for _, a := range attachments {
		if err := u.storage.DeleteFile(ctx, a.StorageKey); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
