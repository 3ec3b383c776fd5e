package platform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/adapters/fs"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

func TestResolveStorePath(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{"Empty Uses Default", "", fs.DefaultPath},
		{"Plain Relative", "./data/kv.json", filepath.Join("data", "kv.json")},
		{"Plain Absolute", "/var/lib/imgbed/kv.json", filepath.FromSlash("/var/lib/imgbed/kv.json")},
		{"File URI", "file:///var/lib/imgbed/kv.json", filepath.FromSlash("/var/lib/imgbed/kv.json")},
		{"File URI Localhost", "file://localhost/srv/kv.json", filepath.FromSlash("/srv/kv.json")},
		{"File URI Escaped", "file:///srv/my%20data/kv.json", filepath.FromSlash("/srv/my data/kv.json")},
		{"File URI Relative", "file:data/kv.json", filepath.FromSlash("data/kv.json")},
		{"File URI Drive Letter", "file:///C:/data/kv.json", filepath.FromSlash("C:/data/kv.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveStorePath(tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveStorePath_Errors(t *testing.T) {
	for _, location := range []string{"file://remote-host/kv.json", "file://", "file:///%zz"} {
		t.Run(location, func(t *testing.T) {
			_, err := ResolveStorePath(location)
			assert.ErrorIs(t, err, core.ErrConfiguration)
		})
	}
}
