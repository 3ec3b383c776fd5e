package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"
)

const defaultEventBuffer = 100

// Service exposes the generic key-value surface of a Repository.
//
// Every generic call classifies its key once with ParseKey and is dispatched to
// exactly one namespace, so callers that assume a single flat namespace can be
// backed by the three independent stores of a Repository.
type Service struct {
	repo            Repository
	logger          *slog.Logger
	mu              sync.RWMutex
	eventBufferSize int
	watchers        int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEventBuffer sets the size of the buffer between the repository watcher
// and Watch consumers. Zero or less means 100.
func WithEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// WithLogger sets the logger of the service. Nil keeps the discarding default.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		logger:          slog.New(slog.DiscardHandler),
		eventBufferSize: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the underlying namespace store.
func (s *Service) Repository() Repository {
	return s.repo
}

// Put stores value under key.
//
// Every key is accepted, including the empty key, which names a file.
// Settings keys store value as-is. Operation keys expect a JSON encoded
// Operation (string or []byte). Any other key stores value as a file payload
// with opts.Metadata.
func (s *Service) Put(ctx context.Context, key string, value any, opts PutOptions) error {
	k := ParseKey(key)
	switch k.Kind {
	case KindSetting:
		return s.repo.PutSetting(ctx, k.ID, value)
	case KindOperation:
		op, err := decodeOperation(value)
		if err != nil {
			return err
		}
		return s.repo.PutIndexOperation(ctx, k.ID, op)
	case KindFile:
		payload, err := payloadString(value)
		if err != nil {
			return err
		}
		return s.repo.PutFile(ctx, k.ID, payload, opts.Metadata)
	}
	return fmt.Errorf("unsupported key kind %s", k.Kind)
}

// Get returns the value stored under key, or nil when the key is absent.
// Files and operations are returned as strings; operations are JSON encoded.
func (s *Service) Get(ctx context.Context, key string) (any, error) {
	entry, err := s.GetWithMetadata(ctx, key)
	if err != nil || entry == nil {
		return nil, err
	}
	return entry.Value, nil
}

// GetWithMetadata returns the value and metadata stored under key, or nil when
// the key is absent. Only files carry metadata; other namespaces report an
// empty map.
func (s *Service) GetWithMetadata(ctx context.Context, key string) (*Entry, error) {
	k := ParseKey(key)
	switch k.Kind {
	case KindSetting:
		value, found, err := s.repo.GetSetting(ctx, k.ID)
		if err != nil || !found {
			return nil, err
		}
		return &Entry{Value: value, Metadata: Metadata{}}, nil
	case KindOperation:
		op, err := s.repo.GetIndexOperation(ctx, k.ID)
		if err != nil || op == nil {
			return nil, err
		}
		encoded, err := json.Marshal(op)
		if err != nil {
			return nil, fmt.Errorf("failed to encode operation %s: %w", k.ID, err)
		}
		return &Entry{Value: string(encoded), Metadata: Metadata{}}, nil
	case KindFile:
		rec, err := s.repo.GetFile(ctx, k.ID)
		if err != nil || rec == nil {
			return nil, err
		}
		return &Entry{Value: rec.Value, Metadata: rec.Metadata}, nil
	}
	return nil, fmt.Errorf("unsupported key kind %s", k.Kind)
}

// Delete removes key from its namespace. Absent keys are not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	k := ParseKey(key)
	switch k.Kind {
	case KindSetting:
		return s.repo.DeleteSetting(ctx, k.ID)
	case KindOperation:
		return s.repo.DeleteIndexOperation(ctx, k.ID)
	case KindFile:
		return s.repo.DeleteFile(ctx, k.ID)
	}
	return fmt.Errorf("unsupported key kind %s", k.Kind)
}

// List lists the namespace selected by opts.Prefix.
//
// Operation listings ignore everything after the operation prefix and return
// every queued operation (up to the limit) in timestamp order, named with
// their generic key.
func (s *Service) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	k := ParseKey(opts.Prefix)
	switch k.Kind {
	case KindSetting:
		return s.repo.ListSettings(ctx, opts)
	case KindOperation:
		ops, err := s.repo.ListIndexOperations(ctx, OperationListOptions{Limit: opts.Limit})
		if err != nil {
			return ListResult{}, err
		}
		keys := make([]ListKey, 0, len(ops))
		for _, op := range ops {
			keys = append(keys, ListKey{Name: OperationKey(op.ID)})
		}
		return ListResult{Keys: keys, ListComplete: true}, nil
	case KindFile:
		return s.repo.ListFiles(ctx, opts)
	}
	return ListResult{}, fmt.Errorf("unsupported key kind %s", k.Kind)
}

// EnqueueOperation stores a new unprocessed operation stamped with the current
// time and returns its id. Ids are time ordered.
func (s *Service) EnqueueOperation(ctx context.Context, opType string, data any) (string, error) {
	if opType == "" {
		return "", fmt.Errorf("%w: operation type cannot be empty", ErrInvalidOperation)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode operation data: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate operation id: %w", err)
	}

	op := Operation{
		Type:      opType,
		Timestamp: MillisTimestamp(time.Now().UnixMilli()),
		Data:      raw,
	}
	if err := s.repo.PutIndexOperation(ctx, id.String(), op); err != nil {
		return "", err
	}
	return id.String(), nil
}

// AckOperations marks the given operations as processed.
// Unknown ids are skipped.
func (s *Service) AckOperations(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.repo.MarkOperationsProcessed(ctx, ids...); err != nil {
		return fmt.Errorf("failed to ack operations: %w", err)
	}
	return nil
}

// PurgeProcessedOperations deletes every processed operation and reports how
// many were removed.
func (s *Service) PurgeProcessedOperations(ctx context.Context) (int, error) {
	removed, err := s.repo.DeleteProcessedOperations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge operations: %w", err)
	}
	s.logger.Debug("purged processed operations", "count", removed)
	return removed, nil
}

// Watch observes external changes of the repository if supported.
// Events are buffered so a slow consumer does not stall the watcher.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}

	upstream, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	size := s.eventBufferSize
	s.watchers++
	s.mu.Unlock()

	out := make(chan Event, size)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer func() {
			s.mu.Lock()
			s.watchers--
			s.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-upstream:
				if !ok {
					return nil
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("watch relay failed", "error", err)
	}))
	return out, nil
}

func payloadString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: file payload must be a string, got %T", ErrInvalidValue, value)
}

func decodeOperation(value any) (Operation, error) {
	var raw []byte
	switch v := value.(type) {
	case Operation:
		return v, nil
	case *Operation:
		if v == nil {
			return Operation{}, fmt.Errorf("%w: nil operation", ErrInvalidOperation)
		}
		return *v, nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		return Operation{}, fmt.Errorf("%w: expected JSON encoded operation, got %T", ErrInvalidOperation, value)
	}

	var op Operation
	if err := json.Unmarshal(raw, &op); err != nil {
		return Operation{}, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	return op, nil
}
