package platform

import (
	"log/slog"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/adapters/fs"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// options holds the internal configuration of the store.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	adapter      string
	filesystem   fs.Filesystem
	errorHandler func(error)
	eventBuffer  int
}

// Option defines a functional option for configuring the store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
	}
}

// WithLogger sets the logger. Load failures are only ever reported here.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a ready repository (e.g. a cloud-backed one).
// If provided, the file adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFilesystem injects the filesystem capability used by the "fs" adapter.
// Without it the host filesystem is used where one exists.
func WithFilesystem(fsys fs.Filesystem) Option {
	return func(o *options) {
		o.filesystem = fsys
	}
}

// WithWatcherErrorHandler registers a callback for failures of the backing
// file watcher, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithEventBuffer sets the size of the Watch event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}
