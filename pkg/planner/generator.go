package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
)

// ConflictPolicy reports whether existing already occupies the slot of candidate.
type ConflictPolicy func(existing, candidate core.Post) bool

// Policy names accepted by ParseConflictPolicy.
const (
	PolicyDate          = "date"
	PolicyDateAndFormat = "date+format"
)

// ConflictByDate treats a date as one slot, whatever the format.
func ConflictByDate(existing, candidate core.Post) bool {
	return existing.Date == candidate.Date
}

// ConflictByDateAndFormat allows one post per format on a date.
func ConflictByDateAndFormat(existing, candidate core.Post) bool {
	return existing.Date == candidate.Date && existing.Format == candidate.Format
}

// ParseConflictPolicy resolves a policy name. An empty name is PolicyDate.
func ParseConflictPolicy(name string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyDate:
		return ConflictByDate, nil
	case PolicyDateAndFormat, "date_and_format", "date-format":
		return ConflictByDateAndFormat, nil
	}
	return nil, fmt.Errorf("unknown conflict policy %q (want %q or %q)", name, PolicyDate, PolicyDateAndFormat)
}

// SuggestedTitle is the placeholder title of a generated post.
func SuggestedTitle(f core.Format) string {
	return "Pauta Sugerida: " + f.String()
}

// Generator fills a month with planned posts following the weekly strategy.
type Generator struct {
	repo       *PostRepository
	strategies *StrategyStore
	holidays   core.HolidayTable
	policy     ConflictPolicy
	owner      string
	newID      func() core.PostID
	logger     *slog.Logger
	recorder   Recorder
}

// NewGenerator creates a generator over the repository and strategy store.
func NewGenerator(repo *PostRepository, strategies *StrategyStore, opts ...Option) *Generator {
	return newGenerator(repo, strategies, buildConfig(opts))
}

func newGenerator(repo *PostRepository, strategies *StrategyStore, c config) *Generator {
	return &Generator{
		repo:       repo,
		strategies: strategies,
		holidays:   c.holidays,
		policy:     c.policy,
		owner:      c.owner,
		newID:      c.newID,
		logger:     c.logger,
		recorder:   c.recorder,
	}
}

// Plan computes the posts GenerateForMonth would create, without storing them.
func (g *Generator) Plan(year int, month time.Month) []core.Post {
	grid := core.BuildMonthGrid(year, month, g.holidays)
	strategy := g.strategies.Get()
	occupied := g.repo.Active()

	var planned []core.Post
	for _, day := range grid.Days {
		entry := strategy[day.Weekday()]
		if !entry.Active {
			continue
		}

		candidate := core.Post{
			Date:   day.ISO(),
			Title:  SuggestedTitle(entry.DefaultFormat),
			Format: entry.DefaultFormat,
			Status: core.StatusPlanned,
			Owner:  g.owner,
		}
		if g.conflicts(occupied, candidate) || g.conflicts(planned, candidate) {
			continue
		}

		candidate.ID = g.newID()
		planned = append(planned, candidate)
	}
	return planned
}

// GenerateForMonth creates one planned post for every active weekday of the
// month whose slot is free, persisting them in one batch. Zero created posts
// is a success. Archived posts never occupy a slot.
func (g *Generator) GenerateForMonth(ctx context.Context, year int, month time.Month) ([]core.Post, error) {
	created := g.Plan(year, month)
	grid := core.BuildMonthGrid(year, month, nil)

	if len(created) == 0 {
		g.logger.Info("month already planned", "month", grid.Key())
		return []core.Post{}, nil
	}

	if err := g.repo.UpsertMany(ctx, created); err != nil {
		return nil, err
	}

	g.recorder.Generated(len(created))
	g.logger.Info("month generated", "month", grid.Key(), "created", len(created))
	return created, nil
}

func (g *Generator) conflicts(posts []core.Post, candidate core.Post) bool {
	for _, p := range posts {
		if !p.IsArchived && g.policy(p, candidate) {
			return true
		}
	}
	return false
}
