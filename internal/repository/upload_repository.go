package repository

import (
	"context"
	"fmt"
	"io"
)

// BoundedUploadRepository implements UploadRepository over in-flight
// multipart streams
type BoundedUploadRepository struct {
	limit int64
}

// NewBoundedUploadRepository creates a repository that reads at most limit+1 bytes per upload
func NewBoundedUploadRepository(limit int64) UploadRepository {
	return &BoundedUploadRepository{limit: limit}
}

// ReadUpload reads the upload. A result longer than Limit means the upload
// exceeded it.
func (r *BoundedUploadRepository) ReadUpload(ctx context.Context, upload *Upload) ([]byte, error) {
	if upload == nil || upload.Reader == nil {
		return nil, ErrUploadMissing
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, r.limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUploadUnreadable, upload.Filename, err)
	}
	return data, nil
}

// Limit returns the byte limit
func (r *BoundedUploadRepository) Limit() int64 {
	return r.limit
}
