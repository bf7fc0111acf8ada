// Package lifecycle bridges store change events to the lifecycle event model.
package lifecycle

import (
	"context"
	"errors"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/serlyo/pkg/core"
)

// ErrWatchUnsupported is returned when the store cannot report changes.
var ErrWatchUnsupported = errors.New("store does not support watching")

type storeSource struct {
	events <-chan core.Event
	keys   map[string]bool
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits store events.
// When keys are given, events for other keys are dropped.
func NewSource(events <-chan core.Event, keys ...string) lifecycle.Source {
	s := &storeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	if len(keys) > 0 {
		s.keys = make(map[string]bool, len(keys))
		for _, k := range keys {
			s.keys[k] = true
		}
	}
	return s
}

// WatchStore starts watching store and wraps the event stream in a Source.
func WatchStore(ctx context.Context, store core.Store, pattern string, keys ...string) (lifecycle.Source, error) {
	w, ok := store.(core.Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	events, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return NewSource(events, keys...), nil
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.keys != nil && !s.keys[e.Key] {
					continue
				}
				// core.Event implements lifecycle.Event (has String()).
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
