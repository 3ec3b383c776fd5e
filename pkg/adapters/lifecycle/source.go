// Package lifecycle exposes store change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// SourceOption configures a store event source.
type SourceOption func(*storeSource)

// WithEventTypes forwards only events of the given types.
// Without it every event is forwarded.
func WithEventTypes(types ...core.EventType) SourceOption {
	return func(s *storeSource) {
		if s.types == nil {
			s.types = make(map[core.EventType]bool, len(types))
		}
		for _, t := range types {
			s.types[t] = true
		}
	}
}

type storeSource struct {
	events <-chan core.Event
	types  map[core.EventType]bool
	out    chan lifecycle.Event
}

// NewSource adapts a store event stream, such as the channel returned by
// core.Service.Watch, to lifecycle.Source.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &storeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards matching events in the background. Events is closed once ctx
// is done or the store stream ends.
func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			var ok bool
			select {
			case <-ctx.Done():
				return nil
			case e, ok = <-s.events:
			}
			if !ok {
				return nil
			}
			if !s.accepts(e) {
				continue
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}

func (s *storeSource) accepts(e core.Event) bool {
	return s.types == nil || s.types[e.Type]
}
