package service

import (
	"context"
	"io"
)

type UploadResult struct {
	URL        string
	ObjectName string
}

// FileUploadService stores raw media bytes. Object names, not URLs, identify stored files.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string, isPublic bool) (*UploadResult, error)
	DeleteFile(ctx context.Context, objectName string) error
	Close() error
}
