package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/typed"
)

// PostsKey is the store key of the post collection.
const PostsKey = "posts"

// PostRepository is the in-memory post collection, written through to a store.
// Reads return copies; the collection only changes through its methods.
type PostRepository struct {
	blob     *typed.Blob[[]core.Post]
	logger   *slog.Logger
	recorder Recorder
	newID    func() core.PostID

	mu    sync.RWMutex
	posts []core.Post
}

// NewPostRepository creates an empty repository over store. Call Load to read persisted posts.
func NewPostRepository(store core.Store, opts ...Option) *PostRepository {
	c := buildConfig(opts)
	return newPostRepository(store, c)
}

func newPostRepository(store core.Store, c config) *PostRepository {
	return &PostRepository{
		blob:     typed.NewBlob[[]core.Post](store, PostsKey, c.serializer),
		logger:   c.logger,
		recorder: c.recorder,
		newID:    c.newID,
	}
}

// Load replaces the in-memory collection with the persisted one.
// A missing blob yields an empty collection. A corrupt blob is quarantined
// under <key>.corrupt and also yields an empty collection. A record with a
// missing or unrecognized format, status or network keeps its place: the
// blob is quarantined and the field is reset to the draft default.
func (r *PostRepository) Load(ctx context.Context) error {
	posts, err := r.read(ctx)
	if err != nil {
		return err
	}
	r.replace(posts)
	return nil
}

// read decodes and normalizes the persisted collection without touching the
// in-memory one.
func (r *PostRepository) read(ctx context.Context) ([]core.Post, error) {
	posts, err := r.blob.Load(ctx)
	switch {
	case errors.Is(err, core.ErrNotFound):
		posts = nil
	case errors.Is(err, core.ErrMalformedState):
		r.logger.Warn("discarding malformed posts", "key", PostsKey, "error", err)
		r.quarantine(ctx)
		posts = nil
	case err != nil:
		return nil, err
	}

	posts, repaired := r.normalize(posts)
	if repaired > 0 {
		r.logger.Warn("posts repaired with default labels", "key", PostsKey, "count", repaired, "error", core.ErrMalformedState)
		r.quarantine(ctx)
	}
	return posts, nil
}

func (r *PostRepository) quarantine(ctx context.Context) {
	if err := r.blob.Quarantine(ctx); err != nil {
		r.logger.Error("failed to quarantine posts", "key", PostsKey, "error", err)
	}
}

func (r *PostRepository) replace(posts []core.Post) {
	r.mu.Lock()
	r.posts = posts
	r.mu.Unlock()

	r.report()
	r.logger.Debug("posts loaded", "count", len(posts))
}

// normalize canonicalizes ids, assigns ids to legacy records without one and
// drops later duplicates of an id. It also resets enum fields that cannot be
// written back and counts the posts it had to repair.
func (r *PostRepository) normalize(posts []core.Post) ([]core.Post, int) {
	out := make([]core.Post, 0, len(posts))
	seen := make(map[core.PostID]bool, len(posts))
	repaired := 0
	for _, p := range posts {
		if repairLabels(&p) {
			r.logger.Warn("reset unknown labels of post", "id", p.ID, "date", p.Date, "title", p.Title)
			repaired++
		}
		p.ID = p.ID.Normalize()
		if p.ID.IsZero() {
			p.ID = r.newID()
			r.logger.Warn("assigned id to post without one", "id", p.ID, "date", p.Date)
		}
		if seen[p.ID] {
			r.logger.Warn("dropping duplicate post", "id", p.ID)
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, repaired
}

// repairLabels resets invalid enum fields to the values of a new draft.
func repairLabels(p *core.Post) bool {
	changed := false
	if !p.Format.Valid() {
		p.Format, changed = core.FormatPost, true
	}
	if !p.Status.Valid() {
		p.Status, changed = core.StatusPlanned, true
	}
	if !p.Network.Valid() {
		p.Network, changed = core.NetworkNone, true
	}
	return changed
}

// All returns every post in insertion order, archived ones included.
func (r *PostRepository) All() []core.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]core.Post(nil), r.posts...)
}

// Active returns the posts that are not archived.
func (r *PostRepository) Active() []core.Post {
	return r.filter(func(p core.Post) bool { return !p.IsArchived })
}

// Archived returns the soft-deleted posts.
func (r *PostRepository) Archived() []core.Post {
	return r.filter(func(p core.Post) bool { return p.IsArchived })
}

// ByID returns the post with the given id.
func (r *PostRepository) ByID(id core.PostID) (core.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.posts[i], nil
	}
	return core.Post{}, fmt.Errorf("post %q: %w", id, core.ErrNotFound)
}

// ByDate returns the active posts on a YYYY-MM-DD date.
func (r *PostRepository) ByDate(date string) []core.Post {
	return r.filter(func(p core.Post) bool { return !p.IsArchived && p.Date == date })
}

// InMonth returns the active posts dated inside the month.
func (r *PostRepository) InMonth(year int, month time.Month) []core.Post {
	first := core.Day(year, month, 1)
	prefix := fmt.Sprintf("%04d-%02d-", first.Year(), int(first.Month()))
	return r.filter(func(p core.Post) bool { return !p.IsArchived && strings.HasPrefix(p.Date, prefix) })
}

// Search matches titles case-insensitively, newest date first.
// An empty query matches every post.
func (r *PostRepository) Search(query string, includeArchived bool) []core.Post {
	q := strings.ToLower(strings.TrimSpace(query))
	found := r.filter(func(p core.Post) bool {
		if p.IsArchived && !includeArchived {
			return false
		}
		return q == "" || strings.Contains(strings.ToLower(p.Title), q)
	})
	sort.SliceStable(found, func(i, j int) bool { return found[i].Date > found[j].Date })
	return found
}

// Counts returns the number of active and archived posts.
func (r *PostRepository) Counts() (active, archived int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countLocked()
}

func (r *PostRepository) countLocked() (active, archived int) {
	for _, p := range r.posts {
		if p.IsArchived {
			archived++
		} else {
			active++
		}
	}
	return active, archived
}

// Upsert replaces the post with the same id in place, or appends it.
func (r *PostRepository) Upsert(ctx context.Context, post core.Post) error {
	return r.UpsertMany(ctx, []core.Post{post})
}

// UpsertMany applies several upserts with a single store write.
func (r *PostRepository) UpsertMany(ctx context.Context, posts []core.Post) error {
	if len(posts) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := append([]core.Post(nil), r.posts...)
	for _, p := range posts {
		p.ID = p.ID.Normalize()
		if p.ID.IsZero() {
			return &core.ValidationError{Err: errors.New("id: cannot be blank")}
		}
		if i := indexIn(next, p.ID); i >= 0 {
			next[i] = p
		} else {
			next = append(next, p)
		}
	}
	return r.commit(ctx, next)
}

// Remove hard-deletes a post. It reports false, without writing, when no post matches.
func (r *PostRepository) Remove(ctx context.Context, id core.PostID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := make([]core.Post, 0, len(r.posts)-1)
	next = append(next, r.posts[:i]...)
	next = append(next, r.posts[i+1:]...)
	if err := r.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Archive flags a post as soft-deleted.
func (r *PostRepository) Archive(ctx context.Context, id core.PostID) (bool, error) {
	return r.setArchived(ctx, id, true)
}

// Restore clears the soft-delete flag.
func (r *PostRepository) Restore(ctx context.Context, id core.PostID) (bool, error) {
	return r.setArchived(ctx, id, false)
}

func (r *PostRepository) setArchived(ctx context.Context, id core.PostID, archived bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 || r.posts[i].IsArchived == archived {
		return false, nil
	}
	next := append([]core.Post(nil), r.posts...)
	next[i].IsArchived = archived
	if err := r.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// commit persists next and swaps it in. On failure memory is left untouched.
// Callers hold r.mu.
func (r *PostRepository) commit(ctx context.Context, next []core.Post) error {
	if err := r.blob.Save(ctx, next); err != nil {
		r.recorder.PersistenceFailure(PostsKey)
		r.logger.Error("failed to persist posts", "key", PostsKey, "error", err)
		if !errors.Is(err, core.ErrPersistence) {
			err = &core.PersistenceError{Op: "encode", Key: PostsKey, Err: err}
		}
		return err
	}
	r.posts = next
	r.reportLocked()
	return nil
}

func (r *PostRepository) filter(keep func(core.Post) bool) []core.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []core.Post
	for _, p := range r.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *PostRepository) indexOf(id core.PostID) int {
	return indexIn(r.posts, id.Normalize())
}

// indexIn expects a normalized id.
func indexIn(posts []core.Post, id core.PostID) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *PostRepository) report() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.reportLocked()
}

func (r *PostRepository) reportLocked() {
	r.recorder.Posts(r.countLocked())
}
