package repository

import (
	"context"
	"io"
)

// Upload is one multipart file part as received from the client
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// UploadRepository defines the interface for reading upload contents
type UploadRepository interface {
	// ReadUpload returns the upload bytes, reading at most one byte past the
	// configured limit so oversized payloads can be detected without
	// buffering them in full.
	ReadUpload(ctx context.Context, upload *Upload) ([]byte, error)

	// Limit returns the byte limit the repository reads up to
	Limit() int64
}
