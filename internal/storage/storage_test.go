package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)

	ctx := context.Background()
	id, err := s.Save(ctx, "c1-items/a.png", strings.NewReader("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "c1-items/a.png", id)

	content, err := os.ReadFile(filepath.Join(dir, "c1-items", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	ok, err := s.Exists(ctx, "c1-items/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "c1-items/a.png"))
	// повторное удаление не ошибка
	require.NoError(t, s.Delete(ctx, "c1-items/a.png"))

	ok, err = s.Exists(ctx, "c1-items/a.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorageStaysInsideBasePath(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)
}

func TestAssetStoreURLAndContainers(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)

	store := NewAssetStore(backend, "https://cdn.example.com/")

	assert.Equal(t, "company-1-items", ItemsContainer("company-1"))
	assert.Equal(t, "company-1-collections", CollectionsContainer("company-1"))
	assert.Equal(t, "https://cdn.example.com/avatars/x.png", store.URL(AvatarsContainer, "x.png"))

	ctx := context.Background()
	_, err = store.Upload(ctx, "company-1-items", "x.png", strings.NewReader("1"), "image/png")
	require.NoError(t, err)

	ok, err := backend.Exists(ctx, "company-1-items/x.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "company-1-items", "x.png"))
	require.NoError(t, store.Delete(ctx, "company-1-items", "x.png"))
}

func TestObjectNames(t *testing.T) {
	assert.Equal(t, "my_photo.png", SanitizeFilename("my photo.png"))
	assert.Equal(t, "evil.png", SanitizeFilename("../../evil.png"))
	assert.Equal(t, "c.png", SanitizeFilename(`a\b\c.png`))
	assert.Equal(t, "file", SanitizeFilename(""))

	a := ObjectName("front.png")
	b := ObjectName("front.png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_front.png"))
	assert.Len(t, strings.TrimSuffix(a, "_front.png"), 36)
}
