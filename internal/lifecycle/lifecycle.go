// Package lifecycle dispatches named host events to subscribed handlers in priority order.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Event names a point in the host lifecycle.
type Event string

// Host events, fired in this order on boot.
const (
	PluginsLoaded Event = "plugins_loaded"
	Init          Event = "init"
	AdminMenu     Event = "admin_menu"
	AdminInit     Event = "admin_init"
)

// DefaultPriority is used by handlers that do not care about ordering.
const DefaultPriority = 10

// ActivationEvent returns the event fired once when a plugin is enabled.
func ActivationEvent(plugin string) Event {
	return Event("activate_" + plugin)
}

// HandlerFunc reacts to an event.
type HandlerFunc func(ctx context.Context) error

type subscription struct {
	priority int
	seq      int
	name     string
	fn       HandlerFunc
}

// Dispatcher holds the subscriptions. It is safe for concurrent use.
type Dispatcher struct {
	mu   sync.Mutex
	seq  int
	subs map[Event][]subscription
	// fired counts how often each event was fired.
	fired map[Event]int
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		subs:  map[Event][]subscription{},
		fired: map[Event]int{},
	}
}

// Subscribe adds fn to ev. Lower priorities run first, equal priorities in subscription order.
func (d *Dispatcher) Subscribe(ev Event, priority int, name string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	list := append(d.subs[ev], subscription{priority: priority, seq: d.seq, name: name, fn: fn})

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority < list[j].priority
		}

		return list[i].seq < list[j].seq
	})

	d.subs[ev] = list
}

// Fire runs every handler of ev. Handlers subscribed while ev is running are not run
// by that call. A failing handler is logged and does not stop the others; all errors
// are joined and returned.
func (d *Dispatcher) Fire(ctx context.Context, ev Event) error {
	d.mu.Lock()
	list := make([]subscription, len(d.subs[ev]))
	copy(list, d.subs[ev])
	d.fired[ev]++
	d.mu.Unlock()

	log.Debug().Str("event", string(ev)).Int("handlers", len(list)).Msg("firing lifecycle event")

	var errs []error

	for _, s := range list {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}

		if err := s.fn(ctx); err != nil {
			log.Error().Err(err).Str("event", string(ev)).Str("handler", s.name).Msg("lifecycle handler failed")
			errs = append(errs, fmt.Errorf("%s on %s: %w", s.name, ev, err))
		}
	}

	return errors.Join(errs...)
}

// Fired reports how often ev was fired.
func (d *Dispatcher) Fired(ev Event) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.fired[ev]
}

// Handlers returns the names of the handlers of ev in run order.
func (d *Dispatcher) Handlers(ev Event) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, 0, len(d.subs[ev]))
	for _, s := range d.subs[ev] {
		out = append(out, s.name)
	}

	return out
}
