package core

import "context"

// Store is the key-value port the planner persists through.
// Adhering to this interface keeps the planner independent of the
// underlying storage mechanism (filesystem, SQLite, memory).
type Store interface {
	// Get returns the blob stored under key, or an error matching ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the blob stored under key. It must not return before the data is durable.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can report external changes.
type Watchable interface {
	// Watch emits an Event for every key matching pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Closer is implemented by stores that hold resources (database handles).
type Closer interface {
	Close() error
}

type contextKey string

// ChangeReasonKey is the context key for the change reason (commit message) of a write.
const ChangeReasonKey contextKey = "change_reason"

// WithChangeReason attaches a change reason to ctx.
func WithChangeReason(ctx context.Context, reason string) context.Context {
	return context.WithValue(ctx, ChangeReasonKey, reason)
}

// ChangeReason extracts the change reason from ctx, or fallback when absent.
func ChangeReason(ctx context.Context, fallback string) string {
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		return val
	}
	return fallback
}
