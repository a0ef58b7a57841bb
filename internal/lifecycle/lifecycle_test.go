package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFireRunsByPriority(t *testing.T) {
	d := New()

	var order []string

	record := func(name string) HandlerFunc {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	d.Subscribe(PluginsLoaded, 4, "admin", record("admin"))
	d.Subscribe(PluginsLoaded, 1, "constants", record("constants"))
	d.Subscribe(PluginsLoaded, 3, "includes", record("includes"))
	d.Subscribe(PluginsLoaded, 2, "i18n", record("i18n"))
	d.Subscribe(PluginsLoaded, 2, "i18n-second", record("i18n-second"))

	require.NoError(t, d.Fire(context.Background(), PluginsLoaded))
	assert.Equal(t, []string{"constants", "i18n", "i18n-second", "includes", "admin"}, order)
	assert.Equal(t, order, d.Handlers(PluginsLoaded))
	assert.Equal(t, 1, d.Fired(PluginsLoaded))
	assert.Equal(t, 0, d.Fired(Init))
}

func TestFireCollectsErrors(t *testing.T) {
	d := New()
	boom := errors.New("boom")

	ran := false

	d.Subscribe(Init, DefaultPriority, "fails", func(context.Context) error { return boom })
	d.Subscribe(Init, DefaultPriority, "runs", func(context.Context) error {
		ran = true
		return nil
	})

	err := d.Fire(context.Background(), Init)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fails on init")
	assert.True(t, ran)
}

func TestSubscribeDuringFire(t *testing.T) {
	d := New()

	calls := 0

	d.Subscribe(PluginsLoaded, 1, "outer", func(context.Context) error {
		d.Subscribe(PluginsLoaded, 2, "late", func(context.Context) error {
			calls++
			return nil
		})
		d.Subscribe(Init, DefaultPriority, "init", func(context.Context) error {
			calls += 10
			return nil
		})

		return nil
	})

	require.NoError(t, d.Fire(context.Background(), PluginsLoaded))
	assert.Equal(t, 0, calls)

	require.NoError(t, d.Fire(context.Background(), Init))
	assert.Equal(t, 10, calls)
}

func TestFireStopsOnCancel(t *testing.T) {
	d := New()
	ctx, cancel := context.WithCancel(context.Background())

	d.Subscribe(Init, 1, "cancel", func(context.Context) error {
		cancel()
		return nil
	})
	d.Subscribe(Init, 2, "never", func(context.Context) error {
		t.Fatal("handler ran after cancel")
		return nil
	})

	require.ErrorIs(t, d.Fire(ctx, Init), context.Canceled)
}

func TestConcurrentFire(t *testing.T) {
	d := New()

	var (
		mu    sync.Mutex
		count int
	)

	d.Subscribe(Init, DefaultPriority, "count", func(context.Context) error {
		mu.Lock()
		count++
		mu.Unlock()

		return nil
	})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_ = d.Fire(context.Background(), Init)
		}()
	}

	wg.Wait()

	assert.Equal(t, 20, count)
	assert.Equal(t, 20, d.Fired(Init))
}

func TestActivationEvent(t *testing.T) {
	assert.Equal(t, Event("activate_restaurant"), ActivationEvent("restaurant"))
}
