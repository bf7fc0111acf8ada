// Package planner is the scheduling engine: the post repository, the weekly
// strategy, the bulk generator and the post lifecycle, composed by Planner.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/typed"
)

// ThemeKey is the store key of the UI palette selector.
const ThemeKey = "theme"

// Planner composes the engine for a rendering layer. It owns the post
// collection and the weekly strategy; every mutation is written through to
// the store before it returns. Planner is safe for concurrent use.
type Planner struct {
	store      core.Store
	cfg        config
	logger     *slog.Logger
	posts      *PostRepository
	strategies *StrategyStore
	generator  *Generator
	lifecycle  *Lifecycle
	themeBlob  *typed.Blob[core.Theme]

	mu       sync.RWMutex
	theme    core.Theme
	loadedAt *time.Time
}

// New wires a planner over store. Call Load before use.
func New(store core.Store, opts ...Option) *Planner {
	c := buildConfig(opts)
	posts := newPostRepository(store, c)
	strategies := newStrategyStore(store, c)
	return &Planner{
		store:      store,
		cfg:        c,
		logger:     c.logger,
		posts:      posts,
		strategies: strategies,
		generator:  newGenerator(posts, strategies, c),
		lifecycle:  newLifecycle(posts, c),
		themeBlob:  typed.NewBlob[core.Theme](store, ThemeKey, c.serializer),
	}
}

// Load reads posts, strategy and theme from the store. Missing or corrupt
// blobs fall back to empty or default state; only store failures are returned.
// Nothing in memory changes unless all three keys were read.
func (p *Planner) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	posts, err := p.posts.read(ctx)
	if err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}
	strategy, err := p.strategies.read(ctx)
	if err != nil {
		return fmt.Errorf("failed to load strategy: %w", err)
	}
	theme, err := p.readTheme(ctx)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}

	p.posts.replace(posts)
	p.strategies.replace(strategy)
	p.theme = theme

	now := p.cfg.now()
	p.loadedAt = &now
	active, archived := p.posts.Counts()
	p.logger.Debug("planner loaded", "active", active, "archived", archived, "theme", theme.String())
	return nil
}

func (p *Planner) readTheme(ctx context.Context) (core.Theme, error) {
	theme, err := p.themeBlob.Load(ctx)
	switch {
	case errors.Is(err, core.ErrNotFound):
		theme = core.ThemeLight
	case errors.Is(err, core.ErrMalformedState):
		p.logger.Warn("discarding malformed theme", "key", ThemeKey, "error", err)
		if qErr := p.themeBlob.Quarantine(ctx); qErr != nil {
			p.logger.Error("failed to quarantine theme", "key", ThemeKey, "error", qErr)
		}
		theme = core.ThemeLight
	case err != nil:
		return core.ThemeLight, err
	}
	return theme, nil
}

// Reload discards in-memory state and reads the store again, picking up
// changes made by another writer.
func (p *Planner) Reload(ctx context.Context) error {
	return p.Load(ctx)
}

// Store returns the underlying store.
func (p *Planner) Store() core.Store {
	return p.store
}

// Close releases the store when it holds resources.
func (p *Planner) Close() error {
	if c, ok := p.store.(core.Closer); ok {
		return c.Close()
	}
	return nil
}

// --- Reads ---

// Posts returns every post in insertion order.
func (p *Planner) Posts() []core.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts.All()
}

// ActivePosts returns the posts that are not archived.
func (p *Planner) ActivePosts() []core.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts.Active()
}

// ArchivedPosts returns the soft-deleted posts.
func (p *Planner) ArchivedPosts() []core.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts.Archived()
}

// Post returns the post with the given id, or an error matching core.ErrNotFound.
func (p *Planner) Post(id core.PostID) (core.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts.ByID(id)
}

// PostsOn returns the active posts on a calendar day.
func (p *Planner) PostsOn(day time.Time) []core.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts.ByDate(core.FormatDate(day))
}

// PostsInMonth returns the active posts of a month.
func (p *Planner) PostsInMonth(year int, month time.Month) []core.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts.InMonth(year, month)
}

// Search matches titles case-insensitively, newest first.
func (p *Planner) Search(query string, includeArchived bool) []core.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts.Search(query, includeArchived)
}

// MonthGrid builds the calendar grid of a month with the configured holidays.
func (p *Planner) MonthGrid(year int, month time.Month) core.MonthGrid {
	return core.BuildMonthGrid(year, month, p.cfg.holidays)
}

// Holidays returns the configured holiday table.
func (p *Planner) Holidays() core.HolidayTable {
	return p.cfg.holidays
}

// LifecycleMode returns the configured lifecycle mode.
func (p *Planner) LifecycleMode() Mode {
	return p.lifecycle.Mode()
}

// --- Lifecycle ---

// NewDraft returns an unsaved post for day.
func (p *Planner) NewDraft(day time.Time) core.Post {
	return p.lifecycle.NewDraft(day)
}

// Create validates and stores a new post.
func (p *Planner) Create(ctx context.Context, post core.Post) (core.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx = withReason(ctx, core.ChangeTypeFeat, "posts", fmt.Sprintf("create %q on %s", post.Title, post.Date))
	return p.lifecycle.Create(ctx, post)
}

// Update validates and replaces an existing post.
func (p *Planner) Update(ctx context.Context, post core.Post) (core.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx = withReason(ctx, core.ChangeTypeChore, "posts", "update "+post.ID.String())
	return p.lifecycle.Update(ctx, post)
}

// Save creates or updates a post by id.
func (p *Planner) Save(ctx context.Context, post core.Post) (core.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx = withReason(ctx, core.ChangeTypeChore, "posts", "save "+post.Date)
	return p.lifecycle.Save(ctx, post)
}

// Archive soft-deletes a post.
func (p *Planner) Archive(ctx context.Context, id core.PostID) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx = withReason(ctx, core.ChangeTypeChore, "posts", "archive "+id.String())
	return p.lifecycle.Archive(ctx, id)
}

// Restore brings an archived post back.
func (p *Planner) Restore(ctx context.Context, id core.PostID) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx = withReason(ctx, core.ChangeTypeChore, "posts", "restore "+id.String())
	return p.lifecycle.Restore(ctx, id)
}

// HardDelete removes a post permanently.
func (p *Planner) HardDelete(ctx context.Context, id core.PostID) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx = withReason(ctx, core.ChangeTypeChore, "posts", "delete "+id.String())
	return p.lifecycle.HardDelete(ctx, id)
}

// --- Strategy ---

// Strategy returns a copy of the weekly strategy.
func (p *Planner) Strategy() core.WeeklyStrategy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.strategies.Get()
}

// SetActive toggles a weekday.
func (p *Planner) SetActive(ctx context.Context, day time.Weekday, active bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := "off"
	if active {
		state = "on"
	}
	ctx = withReason(ctx, core.ChangeTypeChore, "strategy", fmt.Sprintf("turn %s %s", day, state))
	return p.strategies.SetActive(ctx, day, active)
}

// SetDefaultFormat changes the format generated on a weekday.
func (p *Planner) SetDefaultFormat(ctx context.Context, day time.Weekday, format core.Format) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx = withReason(ctx, core.ChangeTypeChore, "strategy", fmt.Sprintf("set %s to %s", day, format))
	return p.strategies.SetDefaultFormat(ctx, day, format)
}

// ResetStrategy restores the default weekly strategy.
func (p *Planner) ResetStrategy(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx = withReason(ctx, core.ChangeTypeChore, "strategy", "reset to defaults")
	return p.strategies.Reset(ctx)
}

// --- Generation ---

// PlanMonth previews the posts GenerateForMonth would create.
func (p *Planner) PlanMonth(year int, month time.Month) []core.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generator.Plan(year, month)
}

// GenerateForMonth fills the month with planned posts from the strategy.
func (p *Planner) GenerateForMonth(ctx context.Context, year int, month time.Month) ([]core.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := core.BuildMonthGrid(year, month, nil).Key()
	ctx = withReason(ctx, core.ChangeTypeFeat, "generate", "plan "+key)
	return p.generator.GenerateForMonth(ctx, year, month)
}

// --- Theme ---

// Theme returns the persisted palette selector.
func (p *Planner) Theme() core.Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

// SetTheme persists a palette selector.
func (p *Planner) SetTheme(ctx context.Context, theme core.Theme) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx = withReason(ctx, core.ChangeTypeChore, "theme", "use "+theme.String())
	if err := p.themeBlob.Save(ctx, theme); err != nil {
		if !errors.Is(err, core.ErrPersistence) {
			return &core.ValidationError{Err: err}
		}
		p.cfg.recorder.PersistenceFailure(ThemeKey)
		p.logger.Error("failed to persist theme", "key", ThemeKey, "error", err)
		return err
	}
	p.theme = theme
	p.cfg.recorder.Mutation("theme")
	return nil
}

// withReason attaches a change reason unless the caller already set one.
func withReason(ctx context.Context, ctype, scope, subject string) context.Context {
	if core.ChangeReason(ctx, "") != "" {
		return ctx
	}
	return core.WithChangeReason(ctx, core.FormatChangeReason(ctype, scope, subject, ""))
}
