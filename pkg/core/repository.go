package core

import "context"

// FileStore is the namespace of arbitrary payloads with metadata.
type FileStore interface {
	// PutFile stores value and metadata under id, replacing any previous record.
	PutFile(ctx context.Context, id, value string, metadata Metadata) error

	// GetFile returns nil when id is absent.
	GetFile(ctx context.Context, id string) (*FileRecord, error)

	// DeleteFile removes id. Deleting an absent id is not an error.
	DeleteFile(ctx context.Context, id string) error

	// ListFiles returns one page of keys in lexicographic order.
	// A cursor that is not part of the current key set restarts from the first key.
	ListFiles(ctx context.Context, opts ListOptions) (ListResult, error)
}

// SettingStore is the namespace of JSON-typed configuration values.
type SettingStore interface {
	PutSetting(ctx context.Context, key string, value any) error
	GetSetting(ctx context.Context, key string) (value any, found bool, err error)
	DeleteSetting(ctx context.Context, key string) error

	// ListSettings returns a single page; Cursor is ignored.
	ListSettings(ctx context.Context, opts ListOptions) (ListResult, error)
}

// OperationStore is the namespace of queued index operations.
type OperationStore interface {
	PutIndexOperation(ctx context.Context, id string, op Operation) error

	// GetIndexOperation returns nil when id is absent.
	GetIndexOperation(ctx context.Context, id string) (*Operation, error)
	DeleteIndexOperation(ctx context.Context, id string) error

	// ListIndexOperations returns operations in ascending timestamp order.
	ListIndexOperations(ctx context.Context, opts OperationListOptions) ([]OperationEntry, error)

	// MarkOperationsProcessed flags the named operations as processed in one
	// step and reports how many changed. Unknown ids are skipped.
	MarkOperationsProcessed(ctx context.Context, ids ...string) (int, error)

	// DeleteProcessedOperations removes every processed operation in one step
	// and reports how many were removed.
	DeleteProcessedOperations(ctx context.Context) (int, error)
}

// Repository defines the contract for a three-namespace store.
// Adhering to this interface lets the Service route generic keys independently
// of the storage mechanism (local file, cloud key-value store, document database).
type Repository interface {
	FileStore
	SettingStore
	OperationStore

	// Initialize ensures the backing data is loaded. It is idempotent.
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that report external changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
