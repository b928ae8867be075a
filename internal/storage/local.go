package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Local stores blobs below a directory that the HTTP server exposes under
// publicPrefix. Signed URLs are plain public URLs.
type Local struct {
	root         string
	publicPrefix string
	log          *zap.Logger
}

func NewLocal(root, publicPrefix string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{
		root:         root,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		log:          logger.Named("storage"),
	}, nil
}

func (l *Local) Root() string {
	return l.root
}

// cleanPath normalizes rel to a slash separated path below root, without
// a leading slash. ".." segments cannot climb above root.
func cleanPath(rel string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(rel, "\\", "/")), "/")
}

// resolve maps a relative blob path to a file below root.
func (l *Local) resolve(rel string) (string, error) {
	clean := cleanPath(rel)
	if clean == "" {
		return "", ErrInvalidPath
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *Local) Upload(ctx context.Context, originalName, contentType string, data []byte, folder string) (*UploadedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	filename := uuid.NewString() + "-" + base
	rel := cleanPath(path.Join(folder, filename))

	full, err := l.resolve(rel)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("create folder %s: %w", folder, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", rel, err)
	}

	l.log.Debug("File stored", zap.String("path", rel), zap.Int("size", len(data)))

	return &UploadedFile{
		Path:        rel,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		URL:         l.publicURL(rel),
	}, nil
}

func (l *Local) Delete(ctx context.Context, rel string) bool {
	if rel == "" {
		return false
	}
	full, err := l.resolve(rel)
	if err != nil {
		l.log.Warn("Refusing to delete file", zap.String("path", rel), zap.Error(err))
		return false
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.log.Error("Failed to delete file", zap.String("path", rel), zap.Error(err))
		return false
	}
	return true
}

func (l *Local) SignedURL(_ context.Context, rel string, _ time.Duration) (string, error) {
	if rel == "" {
		return "", nil
	}
	return l.publicURL(rel), nil
}

// PathForURL returns the blob path behind a URL built by this storage. It
// accepts absolute URLs and reports false for URLs outside the public prefix.
func (l *Local) PathForURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	rel, ok := strings.CutPrefix(u.Path, l.publicPrefix+"/")
	if !ok {
		return "", false
	}
	rel = cleanPath(rel)
	return rel, rel != ""
}

func (l *Local) publicURL(rel string) string {
	return l.publicPrefix + "/" + strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "/")
}
