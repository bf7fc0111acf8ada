package planner

import (
	"log/slog"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/typed"
)

// DefaultOwner labels posts created by the Bulk Generator.
const DefaultOwner = "Sistema"

// Option configures the planner and its components.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	serializer typed.Serializer
	policy     ConflictPolicy
	policyName string
	mode       Mode
	owner      string
	holidays   core.HolidayTable
	defaults   core.WeeklyStrategy
	newID      func() core.PostID
	recorder   Recorder
	now        func() time.Time
	version    string
}

func defaultConfig() config {
	return config{
		logger:     slog.New(slog.DiscardHandler),
		serializer: typed.NewJSONSerializer(false),
		policy:     ConflictByDate,
		policyName: PolicyDate,
		mode:       ModeArchive,
		owner:      DefaultOwner,
		holidays:   core.BrazilianHolidays(),
		defaults:   core.DefaultWeeklyStrategy(),
		newID:      core.NewPostID,
		recorder:   nopRecorder{},
		now:        time.Now,
		version:    "dev",
	}
}

func buildConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger sets the logger. A nil logger keeps the discard default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSerializer selects the blob encoding (JSON by default).
func WithSerializer(s typed.Serializer) Option {
	return func(c *config) {
		if s != nil {
			c.serializer = s
		}
	}
}

// WithConflictPolicy sets the slot conflict predicate of the Bulk Generator.
// name is reported by introspection.
func WithConflictPolicy(name string, policy ConflictPolicy) Option {
	return func(c *config) {
		if policy != nil {
			c.policy = policy
			c.policyName = name
		}
	}
}

// WithLifecycleMode selects archive-capable or hard-delete-only lifecycle.
func WithLifecycleMode(mode Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithDefaultOwner sets the owner label of generated posts.
func WithDefaultOwner(owner string) Option {
	return func(c *config) {
		c.owner = owner
	}
}

// WithHolidays replaces the holiday table used for month grids.
func WithHolidays(table core.HolidayTable) Option {
	return func(c *config) {
		c.holidays = table
	}
}

// WithDefaultStrategy replaces the seed strategy used when none is stored.
func WithDefaultStrategy(s core.WeeklyStrategy) Option {
	return func(c *config) {
		c.defaults = s
	}
}

// WithIDGenerator replaces the post id source.
func WithIDGenerator(fn func() core.PostID) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithClock replaces time.Now for exports.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithVersion sets the version stamped on exports.
func WithVersion(v string) Option {
	return func(c *config) {
		if v != "" {
			c.version = v
		}
	}
}
