package platform

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/adapters/fs"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// ResolveStorePath turns a store location into a filesystem path.
// It accepts plain paths and file:// URIs; an empty location yields
// fs.DefaultPath.
func ResolveStorePath(location string) (string, error) {
	if location == "" {
		return fs.DefaultPath, nil
	}
	if !strings.HasPrefix(strings.ToLower(location), "file:") {
		return filepath.Clean(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: invalid store URI %q: %v", core.ErrConfiguration, location, err)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote host in store URI %q is not supported", core.ErrConfiguration, location)
	}

	// file:relative/path keeps its path in Opaque.
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", fmt.Errorf("%w: store URI %q has no path", core.ErrConfiguration, location)
	}

	// file:///C:/data/kv.json
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}
