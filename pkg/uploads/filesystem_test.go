package uploads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "photo.PNG", "image/png", strings.NewReader("png bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"), "extension is kept, lowercased: %s", url)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(content))
}

func TestFilesystemStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewFilesystemStore(dir, "/uploads")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestObjectName_Unique(t *testing.T) {
	a := ObjectName("photo.jpg")
	b := ObjectName("photo.jpg")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.Empty(t, filepath.Ext(ObjectName("noext")))
}
