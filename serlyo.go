package serlyo

import (
	"context"
	"log/slog"

	"github.com/aretw0/serlyo/internal/platform"
	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

// --- Types ---

// Planner is a public alias for the scheduling engine.
type Planner = planner.Planner

// Post is a public alias for a calendar post.
type Post = core.Post

// Config is a public alias for the file configuration.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring Serlyo.
type Option = platform.Option

// WithAdapter selects the storage adapter by name ("fs", "sqlite" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStore injects a ready store.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithLogger sets the logger for the store and the planner.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithFormat selects the blob encoding ("json" or "yaml").
func WithFormat(name string) Option {
	return platform.WithFormat(name)
}

// WithVersioning enables or disables git commits of every write.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithAutoInit creates the store directory and git repository when needed.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist fails instead of creating a missing store directory.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the store into the temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithPlannerOptions forwards options to the planner.
func WithPlannerOptions(opts ...planner.Option) Option {
	return platform.WithPlannerOptions(opts...)
}

// --- Factory ---

// New opens the store at path and returns a loaded planner.
func New(ctx context.Context, path string, opts ...Option) (*Planner, error) {
	return platform.New(ctx, path, opts...)
}

// OpenStore builds and initializes a store without a planner.
func OpenStore(ctx context.Context, path string, opts ...Option) (core.Store, error) {
	return platform.OpenStore(ctx, path, opts...)
}

// LoadConfig reads serlyo.yaml (or file) and SERLYO_* overrides.
func LoadConfig(file, dir string) (Config, error) {
	return platform.LoadConfig(file, dir)
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual store path based on dev safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding a planner.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Change Reasons ---

const (
	ChangeTypeFeat     = core.ChangeTypeFeat
	ChangeTypeFix      = core.ChangeTypeFix
	ChangeTypeDocs     = core.ChangeTypeDocs
	ChangeTypeRefactor = core.ChangeTypeRefactor
	ChangeTypeChore    = core.ChangeTypeChore
)

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return core.FormatChangeReason(ctype, scope, subject, body)
}

// WithChangeReason attaches a change reason to the next write made with ctx.
func WithChangeReason(ctx context.Context, reason string) context.Context {
	return core.WithChangeReason(ctx, reason)
}
