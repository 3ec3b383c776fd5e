package typed_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/adapters/fs"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/typed"
)

type UploadConfig struct {
	MaxSizeMB int      `json:"maxSizeMB"`
	Channels  []string `json:"channels"`
}

func setupService(t *testing.T) *core.Service {
	t.Helper()
	repo, err := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "kv.json")})
	require.NoError(t, err)
	return core.NewService(repo)
}

func TestSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("Round Trip", func(t *testing.T) {
		svc := setupService(t)
		upload := typed.NewSetting[UploadConfig](svc, "upload")
		assert.Equal(t, "manage@sysConfig@upload", upload.Key())

		_, found, err := upload.Get(ctx)
		require.NoError(t, err)
		assert.False(t, found)

		want := UploadConfig{MaxSizeMB: 20, Channels: []string{"telegram", "r2"}}
		require.NoError(t, upload.Set(ctx, want))

		got, found, err := upload.Get(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, want, got)

		require.NoError(t, upload.Delete(ctx))
		fallback, err := upload.GetOrDefault(ctx, UploadConfig{MaxSizeMB: 5})
		require.NoError(t, err)
		assert.Equal(t, 5, fallback.MaxSizeMB)
	})

	t.Run("Decodes JSON Encoded Strings", func(t *testing.T) {
		svc := setupService(t)
		require.NoError(t, svc.Put(ctx, "manage@sysConfig@upload", `{"maxSizeMB":50,"channels":["s3"]}`, core.PutOptions{}))

		upload := typed.NewSetting[UploadConfig](svc, "manage@sysConfig@upload")
		got, found, err := upload.Get(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, UploadConfig{MaxSizeMB: 50, Channels: []string{"s3"}}, got)
	})

	t.Run("Plain Strings", func(t *testing.T) {
		svc := setupService(t)
		theme := typed.NewSetting[string](svc, "theme")
		require.NoError(t, theme.Set(ctx, "dark"))

		got, err := theme.GetOrDefault(ctx, "light")
		require.NoError(t, err)
		assert.Equal(t, "dark", got)
	})

	t.Run("Type Mismatch", func(t *testing.T) {
		svc := setupService(t)
		require.NoError(t, svc.Put(ctx, "manage@sysConfig@upload", []any{1, 2}, core.PutOptions{}))

		_, _, err := typed.NewSetting[UploadConfig](svc, "upload").Get(ctx)
		assert.Error(t, err)
	})
}
