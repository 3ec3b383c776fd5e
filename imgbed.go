package imgbed

import (
	"log/slog"

	"github.com/TyrEamon/CloudFlare-ImgBed/internal/platform"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/adapters/fs"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/typed"
)

// --- Keys ---

const (
	// SettingsPrefix marks keys of the settings namespace.
	SettingsPrefix = core.SettingsPrefix
	// OperationPrefix marks keys of the index-operation namespace.
	OperationPrefix = core.OperationPrefix
	// DefaultPath is the backing file used when no location is given.
	DefaultPath = fs.DefaultPath
)

// --- Types ---

// Setting is a public alias for the typed settings accessor.
type Setting[T any] = typed.Setting[T]

// Filesystem is the capability the file adapter loads and persists through.
type Filesystem = fs.Filesystem

// --- Configuration ---

// Option defines a functional option for configuring the store.
type Option = platform.Option

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFilesystem injects the filesystem capability of the file adapter.
func WithFilesystem(fsys Filesystem) Option {
	return platform.WithFilesystem(fsys)
}

// WithWatcherErrorHandler registers a callback for backing file watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithEventBuffer allows specifying the size of the Watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New creates the store service for a path or file:// URI.
// An empty location uses DefaultPath.
func New(location string, opts ...Option) (*core.Service, error) {
	return platform.New(location, opts...)
}

// Open builds and loads the bare repository without the service router.
func Open(location string, opts ...Option) (core.Repository, error) {
	return platform.Init(location, opts...)
}

// NewSetting returns a typed accessor for one settings key.
func NewSetting[T any](svc *core.Service, name string) *Setting[T] {
	return typed.NewSetting[T](svc, name)
}
