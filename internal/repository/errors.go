package repository

import "errors"

var (
	// ErrUploadMissing indicates the request carried no file for the field
	ErrUploadMissing = errors.New("upload missing")

	// ErrUploadUnreadable indicates the upload stream failed mid-read
	ErrUploadUnreadable = errors.New("upload unreadable")
)
