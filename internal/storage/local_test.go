package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *Local {
	l, err := NewLocal(t.TempDir(), "/public/")
	require.NoError(t, err)
	return l
}

func TestLocal_UploadWritesFileAndBuildsURL(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	file, err := l.Upload(ctx, "shelf.jpg", "image/jpeg", []byte("jpeg-bytes"), "submissions")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(file.Path, "submissions/"), file.Path)
	assert.True(t, strings.HasSuffix(file.Filename, "-shelf.jpg"), file.Filename)
	assert.Equal(t, "/public/"+file.Path, file.URL)
	assert.Equal(t, int64(10), file.Size)
	assert.Equal(t, "image/jpeg", file.ContentType)

	data, err := os.ReadFile(filepath.Join(l.Root(), filepath.FromSlash(file.Path)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestLocal_UploadStripsDirectoriesFromName(t *testing.T) {
	l := newTestLocal(t)

	file, err := l.Upload(context.Background(), "../../etc/passwd", "text/plain", []byte("x"), "uploads")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(file.Path, "-passwd"))
	assert.NotContains(t, file.Path, "..")
}

func TestLocal_Delete(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	file, err := l.Upload(ctx, "a.png", "image/png", []byte("png"), "profile-pictures")
	require.NoError(t, err)

	assert.True(t, l.Delete(ctx, file.Path))
	_, err = os.Stat(filepath.Join(l.Root(), filepath.FromSlash(file.Path)))
	assert.True(t, os.IsNotExist(err))

	assert.True(t, l.Delete(ctx, file.Path), "deleting a missing file still succeeds")
	assert.False(t, l.Delete(ctx, ""), "empty path is rejected")
}

func TestLocal_DeleteCannotEscapeRoot(t *testing.T) {
	outside := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	l := newTestLocal(t)
	l.Delete(context.Background(), "../../../../../../"+outside)

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestLocal_SignedURL(t *testing.T) {
	l := newTestLocal(t)

	url, err := l.SignedURL(context.Background(), `uploads\a.jpg`, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "/public/uploads/a.jpg", url)

	url, err = l.SignedURL(context.Background(), "", time.Hour)
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestLocal_UploadCleansFolder(t *testing.T) {
	l := newTestLocal(t)

	file, err := l.Upload(context.Background(), "a.png", "image/png", []byte("png"), "../x")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(file.Path, "x/"), file.Path)
	assert.Equal(t, "/public/"+file.Path, file.URL)
	_, err = os.Stat(filepath.Join(l.Root(), filepath.FromSlash(file.Path)))
	assert.NoError(t, err, "file is stored at the reported path")
}

func TestLocal_PathForURL(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "/media")
	require.NoError(t, err)

	file, err := l.Upload(context.Background(), "me.jpg", "image/jpeg", []byte("jpg"), "profile-pictures")
	require.NoError(t, err)

	testCases := []struct {
		name string
		url  string
		path string
		ok   bool
	}{
		{"own url", file.URL, file.Path, true},
		{"absolute url", "https://cdn.example.com" + file.URL, file.Path, true},
		{"other prefix", "/public/" + file.Path, "", false},
		{"prefix only", "/media/", "", false},
		{"external", "https://example.com/avatar.png", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := l.PathForURL(tc.url)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.path, got)
		})
	}
}
