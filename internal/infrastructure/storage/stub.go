package storage

import (
	"context"
	"net/url"
	"time"

	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
)

var _ brandkitapp.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage stands in when storage is disabled. It signs nothing and
// reports every object as present so the upload flow works in development.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage creates a StubObjectStorage serving URLs under baseURL
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubObjectStorage{BaseURL: baseURL}
}

// GenerateUploadURL returns an unsigned placeholder URL
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url("upload", key, expiresIn)
}

// GenerateDownloadURL returns an unsigned placeholder URL
func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url("download", key, expiresIn)
}

// StatObject reports an empty object for any key
func (s *StubObjectStorage) StatObject(_ context.Context, key string) (*brandkitapp.ObjectInfo, error) {
	if key == "" {
		return nil, errEmptyKey
	}
	return &brandkitapp.ObjectInfo{}, nil
}

// DeleteObject is a no-op
func (s *StubObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	return nil
}

func (s *StubObjectStorage) url(kind, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/" + kind + "/" + key + "?" + q.Encode(), expiresAt, nil
}
