// Package storage abstracts where uploaded media files live. The service
// layer only deals with the Store interface; backends decide whether bytes
// end up in process memory or behind a remote media service.
package storage

import (
	"context"
	"io"
)

// UploadInput describes a single file to store.
type UploadInput struct {
	// Filename is the client-supplied name, used for extension hints only.
	Filename string

	// ContentType is the MIME type reported by the client.
	ContentType string

	// Content is the file payload. It is fully consumed by Upload.
	Content io.Reader

	// Size is the payload size in bytes when known, otherwise zero.
	Size int64
}

// UploadResult identifies a stored file.
type UploadResult struct {
	// Key is the backend-assigned identifier, used for later deletion.
	Key string `json:"key"`

	// URL is the publicly servable location of the file.
	URL string `json:"url"`
}

// Store is the media storage backend.
type Store interface {
	// Upload stores the file and returns its key and public URL.
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)

	// Delete removes a previously uploaded file. Deleting an unknown key
	// is not an error.
	Delete(ctx context.Context, key string) error
}
