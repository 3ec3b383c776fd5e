package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType  string `json:"repository_type"`
	WatchSupported  bool   `json:"watch_supported"`
	ActiveWatchers  int    `json:"active_watchers"`
	EventBufferSize int    `json:"event_buffer_size"`
	// Repository is the repository's own state when it is introspectable.
	Repository any `json:"repository,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	state := ServiceState{
		RepositoryType:  "unknown",
		ActiveWatchers:  s.watchers,
		EventBufferSize: s.eventBufferSize,
	}
	s.mu.RUnlock()

	if s.repo == nil {
		return state
	}
	state.RepositoryType = "repository"
	if comp, ok := s.repo.(introspection.Component); ok {
		state.RepositoryType = comp.ComponentType()
	}
	if insp, ok := s.repo.(introspection.Introspectable); ok {
		state.Repository = insp.State()
	}
	_, state.WatchSupported = s.repo.(Watchable)
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
