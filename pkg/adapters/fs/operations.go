package fs

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// PutIndexOperation stores op under id, replacing any previous record.
func (r *Repository) PutIndexOperation(ctx context.Context, id string, op core.Operation) error {
	if err := validateOperation(op); err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrInvalidOperation, id, err)
	}
	op.Data = bytes.Clone(op.Data)

	return r.update(ctx, func(d *document) error {
		d.setOperation(id, op)
		return nil
	})
}

// GetIndexOperation returns the operation stored under id, or nil when absent.
func (r *Repository) GetIndexOperation(ctx context.Context, id string) (*core.Operation, error) {
	var op *core.Operation
	err := r.view(ctx, func(d *document) error {
		stored, ok := d.operations[id]
		if !ok {
			return nil
		}
		stored.Data = bytes.Clone(stored.Data)
		op = &stored
		return nil
	})
	return op, err
}

// DeleteIndexOperation removes id if present.
func (r *Repository) DeleteIndexOperation(ctx context.Context, id string) error {
	return r.update(ctx, func(d *document) error {
		d.deleteOperation(id)
		return nil
	})
}

// MarkOperationsProcessed flags the named operations as processed in a single
// write. Unknown ids and operations already processed are skipped; the count
// of operations that changed is returned.
func (r *Repository) MarkOperationsProcessed(ctx context.Context, ids ...string) (int, error) {
	marked := 0
	err := r.update(ctx, func(d *document) error {
		for _, id := range ids {
			op, ok := d.operations[id]
			if !ok || op.Processed {
				continue
			}
			op.Processed = true
			d.operations[id] = op
			marked++
		}
		if marked == 0 {
			return errNothingChanged
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

// DeleteProcessedOperations removes every processed operation in a single
// write and returns how many were removed.
func (r *Repository) DeleteProcessedOperations(ctx context.Context) (int, error) {
	removed := 0
	err := r.update(ctx, func(d *document) error {
		for id, op := range d.operations {
			if op.Processed {
				delete(d.operations, id)
				removed++
			}
		}
		if removed == 0 {
			return errNothingChanged
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ListIndexOperations returns operations ordered by numeric timestamp, oldest
// first. Operations sharing a timestamp are ordered by id.
func (r *Repository) ListIndexOperations(ctx context.Context, opts core.OperationListOptions) ([]core.OperationEntry, error) {
	limit := core.EffectiveLimit(opts.Limit)
	var entries []core.OperationEntry

	err := r.view(ctx, func(d *document) error {
		entries = make([]core.OperationEntry, 0, len(d.operations))
		for id, op := range d.operations {
			if opts.Processed != nil && op.Processed != *opts.Processed {
				continue
			}
			op.Data = bytes.Clone(op.Data)
			entries = append(entries, core.OperationEntry{ID: id, Operation: op})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b core.OperationEntry) int {
		return cmp.Or(
			cmp.Compare(a.Millis(), b.Millis()),
			strings.Compare(a.ID, b.ID),
		)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
