// Package memory provides an in-process storage backend used in development
// and tests. Files are held in a map and served from the public base URL.
package memory

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Deba1597/backendProject/internal/storage"
)

// maxFileSize caps uploads at 10 MB to keep memory usage bounded.
const maxFileSize = 10 << 20

// Store keeps uploaded files in memory.
type Store struct {
	mu            sync.RWMutex
	files         map[string][]byte
	contentTypes  map[string]string
	publicBaseURL string
}

// New creates an in-memory store. publicBaseURL is prepended to keys when
// building servable URLs, e.g. "http://localhost:8000/media".
func New(publicBaseURL string) *Store {
	return &Store{
		files:         make(map[string][]byte),
		contentTypes:  make(map[string]string),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload stores the file under a generated key.
func (s *Store) Upload(ctx context.Context, in storage.UploadInput) (*storage.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(in.Content, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("upload exceeds %d bytes", maxFileSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("upload is empty")
	}

	key := uuid.New().String() + path.Ext(in.Filename)

	s.mu.Lock()
	s.files[key] = data
	s.contentTypes[key] = in.ContentType
	s.mu.Unlock()

	return &storage.UploadResult{
		Key: key,
		URL: s.publicBaseURL + "/" + key,
	}, nil
}

// Delete removes the file. Unknown keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.files, key)
	delete(s.contentTypes, key)
	s.mu.Unlock()
	return nil
}

// Get returns the stored bytes and content type for serving. The second
// return is false when the key is unknown.
func (s *Store) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[key]
	return data, s.contentTypes[key], ok
}

// Len reports the number of stored files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
