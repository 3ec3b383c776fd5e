package fs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// Watch reports changes of the backing file made by anyone but this repository.
// Writes whose content matches what this repository last loaded or persisted
// are not reported. The in-memory document is never reloaded.
//
// The channel is closed when ctx is cancelled or the watcher fails.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	if _, ok := r.fs.(OSFilesystem); !ok {
		return nil, errors.New("watching requires the OS filesystem")
	}

	dir := filepath.Dir(r.Path)
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// The directory is watched because atomic writes replace the file.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan core.Event)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		return r.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(r.reportWatchError))

	return events, nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.Event) error {
	target := filepath.Clean(r.Path)
	var lastSeen [sha256.Size]byte

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			eType := mapEventType(event)
			if eType == "" {
				continue
			}

			if eType != core.EventDelete {
				data, err := r.fs.ReadFile(r.Path)
				if err != nil {
					// Replaced again before we could read it; the next event covers it.
					continue
				}
				sum := sha256.Sum256(data)
				if sum == r.ownDigest() || sum == lastSeen {
					continue
				}
				lastSeen = sum
			} else {
				lastSeen = [sha256.Size]byte{}
			}

			r.logger.Debug("store file changed externally", "path", r.Path, "type", eType)
			select {
			case events <- core.Event{Type: eType, ID: r.Path, Timestamp: time.Now().Unix()}:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			r.reportWatchError(wErr)
		}
	}
}

func (r *Repository) reportWatchError(err error) {
	r.logger.Error("store watcher error", "path", r.Path, "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	}
	return ""
}
