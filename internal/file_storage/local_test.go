package filestorage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	path := filepath.Join(root, "CERT-A-B.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0o644))

	ref, err := store.Put(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, ref)

	rc, size, err := store.Open(ctx, ref)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.7", string(body))
	assert.Equal(t, int64(len(body)), size)

	require.NoError(t, store.Remove(ctx, ref))
	require.NoError(t, store.Remove(ctx, ref))

	_, _, err = store.Open(ctx, ref)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStoreRejectsOutsidePaths(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "other.pdf")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	_, err = store.Put(ctx, outside)
	assert.Error(t, err)
	_, _, err = store.Open(ctx, outside)
	assert.Error(t, err)
	_, _, err = store.Open(ctx, "")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "certificates/CERT-A-B.pdf", ObjectName("/tmp/out/CERT-A-B.pdf"))
}
