package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "properties/p1/a.jpg", strings.NewReader("hello"), "image/jpeg"))

	rc, err := s.Get(ctx, "properties/p1/a.jpg")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(b))

	require.NoError(t, s.Delete(ctx, "properties/p1/a.jpg"))
	require.NoError(t, s.Delete(ctx, "properties/p1/a.jpg"), "delete is idempotent")

	_, err = s.Get(ctx, "properties/p1/a.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	// Leading dot-dots are resolved against the root, not the parent directory.
	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), "text/plain"))
	full, err := s.resolve("../../escape.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, s.basePath))

	_, err = s.resolve("")
	assert.Error(t, err)
}
