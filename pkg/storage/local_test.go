package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/uploads/", zerolog.Nop())
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "notes.pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	require.True(t, strings.HasSuffix(url, ".pdf"))

	stored := strings.TrimPrefix(url, "/uploads/")
	content, err := os.ReadFile(filepath.Join(dir, stored))
	require.NoError(t, err)
	require.Equal(t, "pdf bytes", string(content))
}

func TestLocalUploadUniqueNames(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/uploads", zerolog.Nop())
	require.NoError(t, err)

	first, err := store.Upload(context.Background(), "notes.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Upload(context.Background(), "notes.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestLocalUploadStripsHostileExtensions(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/uploads", zerolog.Nop())
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "evil.p?f", strings.NewReader("x"))
	require.NoError(t, err)
	require.False(t, strings.Contains(url, "?"))

	bare, err := store.Upload(context.Background(), "no-extension", strings.NewReader("x"))
	require.NoError(t, err)
	require.False(t, strings.Contains(filepath.Base(bare), "."))
}

func TestLocalUploadCancelledContext(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/uploads", zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Upload(ctx, "notes.pdf", strings.NewReader("x"))
	require.Error(t, err)
}

func TestNewLocalRequiresDir(t *testing.T) {
	_, err := NewLocal("", "/uploads", zerolog.Nop())
	require.Error(t, err)
}
