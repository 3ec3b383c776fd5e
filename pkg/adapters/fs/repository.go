package fs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// DefaultPath is the store location used when none is configured.
const DefaultPath = "data/kv-store.json"

// Repository implements core.Repository on top of a single JSON file.
//
// The whole document is loaded lazily on first use and rewritten in full after
// every mutation. Load, mutation and persist share one lock, so concurrent
// callers of the same Repository never lose updates. Nothing coordinates
// separate processes sharing the file.
type Repository struct {
	Path   string
	config Config
	fs     Filesystem
	logger *slog.Logger

	mu          sync.Mutex
	doc         *document
	loaded      bool
	digest      [sha256.Size]byte // hash of the bytes last loaded or persisted
	lastPersist *time.Time

	stateMu       sync.RWMutex
	watcherActive bool
}

// Config holds the configuration for the file-backed repository.
type Config struct {
	Path         string       // Backing file. Defaults to DefaultPath.
	FS           Filesystem   // Defaults to DefaultFilesystem().
	Logger       *slog.Logger // Defaults to a discarding logger.
	ErrorHandler func(error)  // Receives watcher failures in addition to the logger.
}

// NewRepository creates a new file-backed repository. No I/O happens until the
// first operation.
//
// It fails with core.ErrFilesystemUnavailable when no filesystem is injected
// and the platform has none.
func NewRepository(config Config) (*Repository, error) {
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if config.FS == nil {
		fsys, err := DefaultFilesystem()
		if err != nil {
			return nil, err
		}
		config.FS = fsys
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	return &Repository{
		Path:   config.Path,
		config: config,
		fs:     config.FS,
		logger: config.Logger,
		doc:    newDocument(),
	}, nil
}

// Initialize loads the backing file if that has not happened yet.
// A missing, unreadable or malformed file leaves the store empty; only the
// last two are logged.
func (r *Repository) Initialize(ctx context.Context) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()
	return nil
}

func (r *Repository) ready(ctx context.Context) error {
	if r.fs == nil {
		return core.ErrFilesystemUnavailable
	}
	return ctx.Err()
}

// view runs fn against the loaded document.
func (r *Repository) view(ctx context.Context, fn func(d *document) error) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()
	return fn(r.doc)
}

// errNothingChanged lets an update skip the write when fn made no change.
var errNothingChanged = errors.New("nothing changed")

// update runs fn against the loaded document and persists the result.
// The document is not written when fn fails or returns errNothingChanged.
func (r *Repository) update(ctx context.Context, fn func(d *document) error) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()
	if err := fn(r.doc); err != nil {
		if errors.Is(err, errNothingChanged) {
			return nil
		}
		return err
	}
	return r.persist()
}

// ensureLoaded must be called with r.mu held.
func (r *Repository) ensureLoaded() {
	if r.loaded {
		return
	}
	r.loaded = true

	if err := r.fs.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		r.logger.Error("failed to create store directory", "path", r.Path, "error", err)
		return
	}

	data, err := r.fs.ReadFile(r.Path)
	if errors.Is(err, iofs.ErrNotExist) {
		r.logger.Debug("store file not found, starting empty", "path", r.Path)
		return
	}
	if err != nil {
		r.logger.Error("failed to read store file", "path", r.Path, "error", err)
		return
	}

	doc, err := decodeDocument(data, r.logger.With("path", r.Path))
	if err != nil {
		r.logger.Error("failed to parse store file", "path", r.Path, "error", err)
		return
	}

	r.doc = doc
	r.digest = sha256.Sum256(data)
	r.logger.Debug("store loaded", "path", r.Path,
		"files", doc.files.Len(),
		"settings", doc.settings.Len(),
		"operations", len(doc.operations),
		"unreadable", len(doc.strayFiles)+len(doc.strayOperations),
	)
}

// persist must be called with r.mu held.
func (r *Repository) persist() error {
	if err := r.fs.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := r.doc.encode()
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	if err := r.fs.WriteFile(r.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	now := time.Now()
	r.digest = sha256.Sum256(data)
	r.lastPersist = &now
	r.logger.Debug("store persisted", "path", r.Path, "bytes", len(data))
	return nil
}

// ownDigest reports the hash of the content this repository last loaded or wrote.
func (r *Repository) ownDigest() [sha256.Size]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.digest
}

var _ core.Repository = (*Repository)(nil)
