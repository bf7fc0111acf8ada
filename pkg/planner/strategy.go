package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/typed"
)

// StrategyKey is the store key of the weekly strategy.
const StrategyKey = "strategy"

// StrategyStore holds the weekly strategy, written through to a store.
type StrategyStore struct {
	blob     *typed.Blob[core.StrategyMap]
	defaults core.WeeklyStrategy
	logger   *slog.Logger
	recorder Recorder

	mu      sync.RWMutex
	current core.WeeklyStrategy
}

// NewStrategyStore creates a store seeded with the default strategy. Call Load
// to read the persisted one.
func NewStrategyStore(store core.Store, opts ...Option) *StrategyStore {
	return newStrategyStore(store, buildConfig(opts))
}

func newStrategyStore(store core.Store, c config) *StrategyStore {
	return &StrategyStore{
		blob:     typed.NewBlob[core.StrategyMap](store, StrategyKey, c.serializer),
		defaults: c.defaults,
		logger:   c.logger,
		recorder: c.recorder,
		current:  c.defaults,
	}
}

// Load reads the persisted strategy. A missing or corrupt blob yields the
// defaults; a partial one is completed from the defaults, and so is an entry
// whose format label is unrecognized.
func (s *StrategyStore) Load(ctx context.Context) error {
	strategy, err := s.read(ctx)
	if err != nil {
		return err
	}
	s.replace(strategy)
	return nil
}

func (s *StrategyStore) read(ctx context.Context) (core.WeeklyStrategy, error) {
	m, err := s.blob.Load(ctx)
	strategy := s.defaults

	switch {
	case errors.Is(err, core.ErrNotFound):
	case errors.Is(err, core.ErrMalformedState):
		s.logger.Warn("discarding malformed strategy", "key", StrategyKey, "error", err)
		if qErr := s.blob.Quarantine(ctx); qErr != nil {
			s.logger.Error("failed to quarantine strategy", "key", StrategyKey, "error", qErr)
		}
	case err != nil:
		return strategy, err
	default:
		var repaired []string
		strategy, repaired = core.StrategyFromMap(m, s.defaults)
		if len(repaired) > 0 {
			s.logger.Warn("strategy repaired from defaults",
				"key", StrategyKey,
				"error", core.ErrMalformedState,
				"details", repaired,
			)
		}
	}
	return strategy, nil
}

func (s *StrategyStore) replace(strategy core.WeeklyStrategy) {
	s.mu.Lock()
	s.current = strategy
	s.mu.Unlock()
}

// Get returns a copy of the current strategy.
func (s *StrategyStore) Get() core.WeeklyStrategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// For returns the entry of one weekday.
func (s *StrategyStore) For(day time.Weekday) (core.DayStrategy, error) {
	return s.Get().For(day)
}

// SetActive toggles whether a weekday generates posts.
func (s *StrategyStore) SetActive(ctx context.Context, day time.Weekday, active bool) error {
	return s.update(ctx, day, func(d *core.DayStrategy) { d.Active = active })
}

// SetDefaultFormat changes the format generated on a weekday.
func (s *StrategyStore) SetDefaultFormat(ctx context.Context, day time.Weekday, format core.Format) error {
	if err := validation.Validate(format, validation.By(validFormat)); err != nil {
		return &core.ValidationError{Err: validation.Errors{"defaultFormat": err}}
	}
	return s.update(ctx, day, func(d *core.DayStrategy) { d.DefaultFormat = format })
}

// Set replaces the entry of a weekday.
func (s *StrategyStore) Set(ctx context.Context, day time.Weekday, entry core.DayStrategy) error {
	if err := validation.Validate(entry.DefaultFormat, validation.By(validFormat)); err != nil {
		return &core.ValidationError{Err: validation.Errors{"defaultFormat": err}}
	}
	return s.update(ctx, day, func(d *core.DayStrategy) { *d = entry })
}

// Reset restores and persists the default strategy.
func (s *StrategyStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, s.defaults)
}

func (s *StrategyStore) update(ctx context.Context, day time.Weekday, mutate func(*core.DayStrategy)) error {
	if err := core.CheckWeekday(day); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	mutate(&next[day])
	return s.commit(ctx, next)
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *StrategyStore) commit(ctx context.Context, next core.WeeklyStrategy) error {
	if err := s.blob.Save(ctx, next.Map()); err != nil {
		s.recorder.PersistenceFailure(StrategyKey)
		s.logger.Error("failed to persist strategy", "key", StrategyKey, "error", err)
		if !errors.Is(err, core.ErrPersistence) {
			err = &core.PersistenceError{Op: "encode", Key: StrategyKey, Err: err}
		}
		return err
	}
	s.current = next
	return nil
}

func validFormat(value any) error {
	f, ok := value.(core.Format)
	if !ok || !f.Valid() {
		return fmt.Errorf("must be one of %v", core.AllFormats())
	}
	return nil
}
