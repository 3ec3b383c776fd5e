package platform

import (
	"context"
	"fmt"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/adapters/fs"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// Init builds the repository for the given store location and loads it.
// The 'uri' argument is adapter-specific (a path or file:// URI for 'fs').
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(uri, o)
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs":
		repo, err = initFS(uri, o)
	default:
		return nil, fmt.Errorf("%w: unknown adapter: %s", core.ErrConfiguration, o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS handles the initialization logic for the file adapter.
func initFS(uri string, o *options) (core.Repository, error) {
	path, err := ResolveStorePath(uri)
	if err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("opening file store", "location", uri, "path", path)
	}

	return fs.NewRepository(fs.Config{
		Path:         path,
		FS:           o.filesystem,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
}
