// Package imgbed is the composition root of a file-backed key-value store.
//
// The store stands in for the managed cloud key-value store of the image bed
// application when it runs self-hosted. Callers keep using the same five
// operations (Put, Get, GetWithMetadata, Delete, List) while the data lives in a
// single JSON document on the local disk.
//
// Keys are routed to one of three namespaces:
//
//   - Keys starting with SettingsPrefix hold arbitrary JSON setting values.
//   - Keys starting with OperationPrefix hold queued index operations.
//   - Every other key is a file record: a string payload plus metadata.
//
// The document is loaded lazily on first access and rewritten in full after
// every mutation. A single process may share one store between goroutines;
// several processes must not write the same file.
//
// Usage:
//
//	svc, err := imgbed.New("file:///var/lib/imgbed/kv-store.json",
//		imgbed.WithLogger(logger),
//	)
//
//	err = svc.Put(ctx, "img/cat.png", payload, core.PutOptions{
//		Metadata: core.Metadata{"Channel": "telegram"},
//	})
package imgbed
