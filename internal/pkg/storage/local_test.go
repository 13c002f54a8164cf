package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "sessions/auth-storage.json", strings.NewReader("first")))
	require.NoError(t, s.Put(ctx, "sessions/auth-storage.json", strings.NewReader("second")))

	ok, err := s.Exists(ctx, "sessions/auth-storage.json")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, "sessions/auth-storage.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	require.NoError(t, s.Delete(ctx, "sessions/auth-storage.json"))
	require.NoError(t, s.Delete(ctx, "sessions/auth-storage.json"))

	_, err = s.Get(ctx, "sessions/auth-storage.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "state.json", strings.NewReader("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "base"))
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "../escape.json", strings.NewReader("x")))

	_, err = os.Stat(filepath.Join(dir, "escape.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "base", "escape.json"))
	assert.NoError(t, err)
}
