package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	Loaded        bool       `json:"loaded"`
	Files         int        `json:"files"`
	Settings      int        `json:"settings"`
	Operations    int        `json:"operations"`
	WatcherActive bool       `json:"watcher_active"`
	LastPersist   *time.Time `json:"last_persist,omitempty"`
}

// State implements introspection.Introspectable.
// It reports what is in memory and never triggers a load.
func (r *Repository) State() any {
	r.mu.Lock()
	state := RepositoryState{
		Path:        r.Path,
		Loaded:      r.loaded,
		LastPersist: r.lastPersist,
	}
	if r.doc != nil {
		state.Files = r.doc.files.Len()
		state.Settings = r.doc.settings.Len()
		state.Operations = len(r.doc.operations)
	}
	r.mu.Unlock()

	r.stateMu.RLock()
	state.WatcherActive = r.watcherActive
	r.stateMu.RUnlock()

	return state
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "kv-file-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	r.watcherActive = active
}
