// Package mediaservice implements a storage backend that forwards uploads to
// a dedicated media service over HTTP. Calls run through a circuit breaker so
// a struggling media service does not drag registration down with it.
package mediaservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/Deba1597/backendProject/internal/httpclient"
	"github.com/Deba1597/backendProject/internal/storage"
)

// Store uploads files to a remote media service.
type Store struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// New creates a media service backend. baseURL is the service root,
// e.g. "http://media-service:8080".
func New(client *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *Store {
	return &Store{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type uploadResponse struct {
	Data *storage.UploadResult `json:"data"`
}

// Upload sends the file as multipart form data to POST /v1/files.
func (s *Store) Upload(ctx context.Context, in storage.UploadInput) (*storage.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", in.Filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return nil, fmt.Errorf("copy upload payload: %w", err)
	}
	if in.ContentType != "" {
		if err := mw.WriteField("content_type", in.ContentType); err != nil {
			return nil, fmt.Errorf("write content_type field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	resp, err := s.client.Post(ctx, s.baseURL+"/v1/files", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, fmt.Errorf("media service upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "media-service")
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode media service response: %w", err)
	}
	if decoded.Data == nil || decoded.Data.URL == "" {
		return nil, fmt.Errorf("media service returned no file location")
	}

	return decoded.Data, nil
}

// Delete removes a file via DELETE /v1/files/{key}. A 404 from the media
// service is treated as success.
func (s *Store) Delete(ctx context.Context, key string) error {
	resp, err := s.client.Delete(ctx, s.baseURL+"/v1/files/"+url.PathEscape(key))
	if err != nil {
		return fmt.Errorf("media service delete: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		s.logger.DebugContext(ctx, "media file already gone", slog.String("key", key))
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "media-service")
	}
	return nil
}
