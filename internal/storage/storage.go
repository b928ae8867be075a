package storage

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidPath = errors.New("storage: path escapes the upload root")

type UploadedFile struct {
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	ContentType string `json:"mimetype"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

// Storage keeps uploaded blobs. Paths are relative and slash separated.
type Storage interface {
	Upload(ctx context.Context, originalName, contentType string, data []byte, folder string) (*UploadedFile, error)
	// Delete reports whether the blob is gone. It never fails loudly.
	Delete(ctx context.Context, path string) bool
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	// PathForURL maps a URL handed out by this storage back to its path.
	PathForURL(url string) (string, bool)
}
