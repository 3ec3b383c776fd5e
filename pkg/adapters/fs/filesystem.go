package fs

import (
	"os"
	"runtime"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// Filesystem is the capability the repository needs to load and persist its
// backing file.
type Filesystem interface {
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// OSFilesystem is the Filesystem of the host operating system.
// Writes go through a temp file and a rename.
type OSFilesystem struct{}

func (OSFilesystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFilesystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFilesystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return replaceFile(name, data, perm)
}

// DefaultFilesystem returns the host filesystem, or core.ErrFilesystemUnavailable
// when the process runs somewhere without one (e.g. js/wasm in a browser).
func DefaultFilesystem() (Filesystem, error) {
	if !filesystemSupported(runtime.GOOS) {
		return nil, core.ErrFilesystemUnavailable
	}
	return OSFilesystem{}, nil
}

func filesystemSupported(goos string) bool {
	return goos != "js"
}
