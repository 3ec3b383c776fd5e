package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storelifecycle "github.com/TyrEamon/CloudFlare-ImgBed/pkg/adapters/lifecycle"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

func TestSource_ForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	upstream := make(chan core.Event, 1)
	src := storelifecycle.NewSource(upstream)
	require.NoError(t, src.Start(ctx))

	upstream <- core.Event{Type: core.EventModify, ID: "data/kv-store.json"}

	select {
	case e := <-src.Events():
		assert.Equal(t, "MODIFY data/kv-store.json", e.String())
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}
}

func TestSource_ClosesWhenUpstreamCloses(t *testing.T) {
	upstream := make(chan core.Event)
	src := storelifecycle.NewSource(upstream)
	require.NoError(t, src.Start(context.Background()))

	close(upstream)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "expected closed channel")
	case <-time.After(time.Second):
		t.Fatal("source did not close")
	}
}

func TestSource_FiltersEventTypes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	upstream := make(chan core.Event, 2)
	src := storelifecycle.NewSource(upstream, storelifecycle.WithEventTypes(core.EventDelete))
	require.NoError(t, src.Start(ctx))

	upstream <- core.Event{Type: core.EventModify, ID: "kv.json"}
	upstream <- core.Event{Type: core.EventDelete, ID: "kv.json"}

	select {
	case e := <-src.Events():
		assert.Equal(t, "DELETE kv.json", e.String())
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}
}
