// Package typed provides type-safe access to values of the settings namespace.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// Setting binds one settings key to a Go type. Values are converted through
// JSON, so T should carry json tags matching what other clients store.
type Setting[T any] struct {
	svc *core.Service
	key string
}

// NewSetting creates a typed accessor for name. A name without the settings
// prefix gets it prepended.
func NewSetting[T any](svc *core.Service, name string) *Setting[T] {
	key := name
	if core.ParseKey(name).Kind != core.KindSetting {
		key = core.SettingKey(name)
	}
	return &Setting[T]{svc: svc, key: key}
}

// Key returns the generic key of the setting.
func (s *Setting[T]) Key() string {
	return s.key
}

// Get decodes the stored value into T. found is false when nothing is stored.
func (s *Setting[T]) Get(ctx context.Context) (value T, found bool, err error) {
	raw, found, err := s.svc.Repository().GetSetting(ctx, s.key)
	if err != nil || !found {
		return value, found, err
	}

	// Values written by other clients are often JSON encoded strings.
	if str, ok := raw.(string); ok {
		if err := json.Unmarshal([]byte(str), &value); err == nil {
			return value, true, nil
		}
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return value, true, fmt.Errorf("marshal failed: %w", err)
	}
	if err := json.Unmarshal(encoded, &value); err != nil {
		return value, true, fmt.Errorf("setting %s does not match %T: %w", s.key, value, err)
	}
	return value, true, nil
}

// GetOrDefault returns fallback when the setting is absent.
func (s *Setting[T]) GetOrDefault(ctx context.Context, fallback T) (T, error) {
	value, found, err := s.Get(ctx)
	if err != nil {
		return fallback, err
	}
	if !found {
		return fallback, nil
	}
	return value, nil
}

// Set stores value through the generic router.
func (s *Setting[T]) Set(ctx context.Context, value T) error {
	return s.svc.Put(ctx, s.key, value, core.PutOptions{})
}

// Delete removes the setting.
func (s *Setting[T]) Delete(ctx context.Context) error {
	return s.svc.Delete(ctx, s.key)
}
