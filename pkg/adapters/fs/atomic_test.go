package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceFile(t *testing.T) {
	t.Run("Replaces Store File", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "kv.json")
		require.NoError(t, os.WriteFile(filename, []byte(`{"files":{}}`), 0644))

		require.NoError(t, replaceFile(filename, []byte(`{"settings":{}}`), 0600))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, `{"settings":{}}`, string(got))
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "kv.json")

		for i := 0; i < 3; i++ {
			require.NoError(t, replaceFile(filename, []byte("{}"), 0644))
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.Contains(e.Name(), tempSuffix), "leftover temp file %s", e.Name())
		}
		assert.Len(t, entries, 1)
	})

	t.Run("Fails If Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "kv.json")
		assert.Error(t, replaceFile(filename, []byte("{}"), 0644))
	})

	t.Run("Relative Name", func(t *testing.T) {
		t.Chdir(t.TempDir())
		require.NoError(t, replaceFile("kv.json", []byte("{}"), 0644))
		assert.FileExists(t, "kv.json")
	})
}

func TestFilesystemSupported(t *testing.T) {
	assert.False(t, filesystemSupported("js"))
	assert.True(t, filesystemSupported("linux"))
	assert.True(t, filesystemSupported("windows"))
	assert.True(t, filesystemSupported("wasip1"))
}
