package fs

import (
	"context"
	"strings"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// PutFile stores value and metadata under id, replacing any previous record.
func (r *Repository) PutFile(ctx context.Context, id, value string, metadata core.Metadata) error {
	meta, err := encodeMetadata(metadata)
	if err != nil {
		return err
	}

	return r.update(ctx, func(d *document) error {
		d.setFile(id, fileEntry{Value: value, Metadata: meta})
		return nil
	})
}

// GetFile returns the record stored under id, or nil when absent.
func (r *Repository) GetFile(ctx context.Context, id string) (*core.FileRecord, error) {
	var rec *core.FileRecord
	err := r.view(ctx, func(d *document) error {
		entry, ok := d.files.Get(id)
		if !ok {
			return nil
		}
		rec = &core.FileRecord{Value: entry.Value, Metadata: r.metadataOf(id, entry.Metadata)}
		return nil
	})
	return rec, err
}

// DeleteFile removes id if present.
func (r *Repository) DeleteFile(ctx context.Context, id string) error {
	return r.update(ctx, func(d *document) error {
		d.deleteFile(id)
		return nil
	})
}

// ListFiles returns one page of file keys starting with opts.Prefix, in
// lexicographic order.
//
// Keys are compared as UTF-8 bytes, which is code point order. It differs from
// UTF-16 code unit order in one case: characters above U+FFFF sort after
// U+E000..U+FFFF here but before them in UTF-16.
//
// Listing resumes right after opts.Cursor. A cursor that no longer names a
// matching key silently restarts from the first key instead of failing.
func (r *Repository) ListFiles(ctx context.Context, opts core.ListOptions) (core.ListResult, error) {
	limit := core.EffectiveLimit(opts.Limit)
	result := core.ListResult{Keys: []core.ListKey{}}

	err := r.view(ctx, func(d *document) error {
		pivot := opts.Prefix
		resume := false
		if opts.Cursor != "" && strings.HasPrefix(opts.Cursor, opts.Prefix) {
			if _, ok := d.files.Get(opts.Cursor); ok {
				pivot = opts.Cursor
				resume = true
			}
		}

		hasMore := false
		d.files.Ascend(pivot, func(name string, entry fileEntry) bool {
			if !strings.HasPrefix(name, opts.Prefix) {
				return false
			}
			if resume && name == opts.Cursor {
				return true
			}
			if len(result.Keys) == limit {
				hasMore = true
				return false
			}
			result.Keys = append(result.Keys, core.ListKey{
				Name:     name,
				Metadata: r.metadataOf(name, entry.Metadata),
			})
			return true
		})

		result.ListComplete = !hasMore
		if hasMore {
			result.Cursor = result.Keys[len(result.Keys)-1].Name
		}
		return nil
	})
	return result, err
}
