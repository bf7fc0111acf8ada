// Package typed provides type-safe access to values kept in a core.Store.
package typed

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/serlyo/pkg/core"
)

// CorruptSuffix is appended to a key when a malformed blob is quarantined.
const CorruptSuffix = ".corrupt"

// Blob is a typed view of one key of a store.
type Blob[T any] struct {
	store      core.Store
	key        string
	serializer Serializer
}

// NewBlob creates a typed wrapper around key. A nil serializer means JSON.
func NewBlob[T any](store core.Store, key string, serializer Serializer) *Blob[T] {
	if serializer == nil {
		serializer = NewJSONSerializer(false)
	}
	return &Blob[T]{store: store, key: key, serializer: serializer}
}

// Key returns the store key of the blob.
func (b *Blob[T]) Key() string {
	return b.key
}

// Load reads and decodes the blob.
//
// A missing key yields core.ErrNotFound. Undecodable data yields an error
// matching core.ErrMalformedState. Any other store failure is a *core.PersistenceError.
func (b *Blob[T]) Load(ctx context.Context) (T, error) {
	var v T

	data, err := b.store.Get(ctx, b.key)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return v, err
		}
		return v, &core.PersistenceError{Op: "get", Key: b.key, Err: err}
	}

	if err := b.serializer.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", core.ErrMalformedState, b.key, err)
	}
	return v, nil
}

// Save encodes v and writes it through to the store.
func (b *Blob[T]) Save(ctx context.Context, v T) error {
	data, err := b.serializer.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", b.key, err)
	}
	if err := b.store.Put(ctx, b.key, data); err != nil {
		return &core.PersistenceError{Op: "put", Key: b.key, Err: err}
	}
	return nil
}

// Delete removes the blob from the store.
func (b *Blob[T]) Delete(ctx context.Context) error {
	if err := b.store.Delete(ctx, b.key); err != nil {
		return &core.PersistenceError{Op: "delete", Key: b.key, Err: err}
	}
	return nil
}

// Quarantine copies the raw bytes of the blob to <key>.corrupt so a later
// Save cannot destroy them.
func (b *Blob[T]) Quarantine(ctx context.Context) error {
	data, err := b.store.Get(ctx, b.key)
	if err != nil {
		return &core.PersistenceError{Op: "get", Key: b.key, Err: err}
	}
	if err := b.store.Put(ctx, b.key+CorruptSuffix, data); err != nil {
		return &core.PersistenceError{Op: "put", Key: b.key + CorruptSuffix, Err: err}
	}
	return nil
}
