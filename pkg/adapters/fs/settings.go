package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// PutSetting stores any JSON encodable value under key.
func (r *Repository) PutSetting(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: setting %s is not JSON encodable: %v", core.ErrInvalidValue, key, err)
	}

	return r.update(ctx, func(d *document) error {
		d.settings.Set(key, raw)
		return nil
	})
}

// GetSetting returns the decoded value stored under key.
func (r *Repository) GetSetting(ctx context.Context, key string) (any, bool, error) {
	var (
		value any
		found bool
	)
	err := r.view(ctx, func(d *document) error {
		raw, ok := d.settings.Get(key)
		if !ok {
			return nil
		}
		found = true
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("failed to decode setting %s: %w", key, err)
		}
		return nil
	})
	return value, found, err
}

// DeleteSetting removes key if present.
func (r *Repository) DeleteSetting(ctx context.Context, key string) error {
	return r.update(ctx, func(d *document) error {
		d.settings.Delete(key)
		return nil
	})
}

// ListSettings returns at most one page of settings starting with opts.Prefix.
// There is no continuation: opts.Cursor is ignored and the result is always
// reported complete.
func (r *Repository) ListSettings(ctx context.Context, opts core.ListOptions) (core.ListResult, error) {
	limit := core.EffectiveLimit(opts.Limit)
	result := core.ListResult{Keys: []core.ListKey{}, ListComplete: true}

	err := r.view(ctx, func(d *document) error {
		var decodeErr error
		d.settings.Ascend(opts.Prefix, func(key string, raw json.RawMessage) bool {
			if !strings.HasPrefix(key, opts.Prefix) || len(result.Keys) == limit {
				return false
			}
			var value any
			if err := json.Unmarshal(raw, &value); err != nil {
				decodeErr = fmt.Errorf("failed to decode setting %s: %w", key, err)
				return false
			}
			result.Keys = append(result.Keys, core.ListKey{Name: key, Value: value})
			return true
		})
		return decodeErr
	})
	return result, err
}
