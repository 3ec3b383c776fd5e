package platform

import (
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// New creates the store service.
//
//	svc, err := imgbed.New("file:///var/lib/imgbed/kv.json")
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	return core.NewService(repo,
		core.WithEventBuffer(o.eventBuffer),
		core.WithLogger(o.logger),
	), nil
}
