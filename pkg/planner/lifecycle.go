package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
)

// Mode selects how posts leave the active views.
type Mode uint8

const (
	// ModeArchive soft-deletes through Archive and allows Restore. HardDelete stays available.
	ModeArchive Mode = iota
	// ModeHardDeleteOnly disables Archive and Restore.
	ModeHardDeleteOnly
)

func (m Mode) String() string {
	switch m {
	case ModeArchive:
		return "archive"
	case ModeHardDeleteOnly:
		return "hard-delete"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode resolves "archive" or "hard-delete".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "archive":
		return ModeArchive, nil
	case "hard-delete", "hard_delete", "harddelete":
		return ModeHardDeleteOnly, nil
	}
	return ModeArchive, fmt.Errorf("unknown lifecycle mode %q", s)
}

// Lifecycle is the create/update/archive/restore/delete state machine of a post.
type Lifecycle struct {
	repo     *PostRepository
	mode     Mode
	newID    func() core.PostID
	logger   *slog.Logger
	recorder Recorder
}

// NewLifecycle creates a lifecycle manager over repo.
func NewLifecycle(repo *PostRepository, opts ...Option) *Lifecycle {
	return newLifecycle(repo, buildConfig(opts))
}

func newLifecycle(repo *PostRepository, c config) *Lifecycle {
	return &Lifecycle{
		repo:     repo,
		mode:     c.mode,
		newID:    c.newID,
		logger:   c.logger,
		recorder: c.recorder,
	}
}

// Mode returns the configured lifecycle mode.
func (l *Lifecycle) Mode() Mode {
	return l.mode
}

// NewDraft returns an unsaved post for a date: fresh id, POST, PLANNED, empty title.
func (l *Lifecycle) NewDraft(date time.Time) core.Post {
	return core.Post{
		ID:     l.newID(),
		Date:   core.FormatDate(date),
		Format: core.FormatPost,
		Status: core.StatusPlanned,
	}
}

// Create validates and stores a new post. An empty id is generated; an id
// already in the repository fails with core.ErrConflict.
func (l *Lifecycle) Create(ctx context.Context, post core.Post) (core.Post, error) {
	post.ID = post.ID.Normalize()
	if post.ID.IsZero() {
		post.ID = l.newID()
	}
	if err := ValidatePost(post); err != nil {
		return core.Post{}, err
	}
	if _, err := l.repo.ByID(post.ID); err == nil {
		return core.Post{}, fmt.Errorf("post %q: %w", post.ID, core.ErrConflict)
	}

	if err := l.repo.Upsert(ctx, post); err != nil {
		return core.Post{}, err
	}
	l.recorder.Mutation("create")
	l.logger.Info("post created", "id", post.ID, "date", post.Date, "format", post.Format.String())
	return post, nil
}

// Update validates and replaces an existing post in place. The stored archive
// flag wins over the one in post.
func (l *Lifecycle) Update(ctx context.Context, post core.Post) (core.Post, error) {
	current, err := l.repo.ByID(post.ID)
	if err != nil {
		return core.Post{}, err
	}
	post.ID = current.ID
	post.IsArchived = current.IsArchived

	if err := ValidatePost(post); err != nil {
		return core.Post{}, err
	}
	if err := l.repo.Upsert(ctx, post); err != nil {
		return core.Post{}, err
	}
	l.recorder.Mutation("update")
	l.logger.Info("post updated", "id", post.ID)
	return post, nil
}

// Save is the editor path: update when the id exists, create otherwise.
func (l *Lifecycle) Save(ctx context.Context, post core.Post) (core.Post, error) {
	if !post.ID.IsZero() {
		if _, err := l.repo.ByID(post.ID); err == nil {
			return l.Update(ctx, post)
		}
	}
	return l.Create(ctx, post)
}

// Archive soft-deletes a post. A missing or already archived id is a no-op.
func (l *Lifecycle) Archive(ctx context.Context, id core.PostID) (bool, error) {
	if l.mode == ModeHardDeleteOnly {
		return false, core.ErrArchiveDisabled
	}
	changed, err := l.repo.Archive(ctx, id)
	if err != nil {
		return false, err
	}
	if changed {
		l.recorder.Mutation("archive")
		l.logger.Info("post archived", "id", id)
	}
	return changed, nil
}

// Restore brings an archived post back. A missing or active id is a no-op.
func (l *Lifecycle) Restore(ctx context.Context, id core.PostID) (bool, error) {
	if l.mode == ModeHardDeleteOnly {
		return false, core.ErrArchiveDisabled
	}
	changed, err := l.repo.Restore(ctx, id)
	if err != nil {
		return false, err
	}
	if changed {
		l.recorder.Mutation("restore")
		l.logger.Info("post restored", "id", id)
	}
	return changed, nil
}

// HardDelete removes a post permanently, archived or not. Callers confirm
// with the user first; there is no undo. A missing id is a no-op.
func (l *Lifecycle) HardDelete(ctx context.Context, id core.PostID) (bool, error) {
	removed, err := l.repo.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		l.recorder.Mutation("delete")
		l.logger.Info("post deleted", "id", id)
	}
	return removed, nil
}
