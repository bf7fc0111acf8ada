// Package memory implements core.Store in process memory.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/serlyo/pkg/core"
)

// Store keeps blobs in a map. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	logger   *slog.Logger
	readOnly bool
	watchers []*watcher
}

type watcher struct {
	pattern string
	ctx     context.Context
	ch      chan core.Event
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(s *Store) {
		s.readOnly = readOnly
	}
}

// WithSeed preloads the store with blobs.
func WithSeed(seed map[string][]byte) Option {
	return func(s *Store) {
		for k, v := range seed {
			s.data[k] = append([]byte(nil), v...)
		}
	}
}

// New creates an empty memory store.
func New(opts ...Option) *Store {
	s := &Store{
		data:   make(map[string][]byte),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize implements core.Store. There is nothing to prepare.
func (s *Store) Initialize(ctx context.Context) error {
	return ctx.Err()
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

// Put implements core.Store.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.readOnly {
		return fmt.Errorf("%w: put %s", core.ErrReadOnly, key)
	}

	s.mu.Lock()
	_, existed := s.data[key]
	s.data[key] = append([]byte(nil), data...)
	s.mu.Unlock()

	s.logger.Debug("blob stored", "key", key, "bytes", len(data))

	eType := core.EventCreate
	if existed {
		eType = core.EventModify
	}
	s.notify(core.Event{Type: eType, Key: key, Timestamp: time.Now().Unix()})
	return nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.readOnly {
		return fmt.Errorf("%w: delete %s", core.ErrReadOnly, key)
	}

	s.mu.Lock()
	_, existed := s.data[key]
	delete(s.data, key)
	s.mu.Unlock()

	if existed {
		s.notify(core.Event{Type: core.EventDelete, Key: key, Timestamp: time.Now().Unix()})
	}
	return nil
}

// Keys implements core.Store.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch implements core.Watchable. Events are delivered for writes made
// through this Store; the channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	w := &watcher{pattern: pattern, ctx: ctx, ch: make(chan core.Event, 16)}

	s.mu.Lock()
	s.watchers = append(s.watchers, w)
	s.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, other := range s.watchers {
			if other == w {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(w.ch)
		return nil
	})

	return w.ch, nil
}

func (s *Store) notify(e core.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.watchers {
		if ok, _ := doublestar.Match(w.pattern, e.Key); !ok {
			continue
		}
		select {
		case w.ch <- e:
		case <-w.ctx.Done():
		default:
			s.logger.Warn("dropping event for slow watcher", "key", e.Key)
		}
	}
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var (
	_ core.Store     = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
)
