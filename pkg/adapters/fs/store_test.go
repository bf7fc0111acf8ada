package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/git"
)

func newTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	s := New(cfg)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return s
}

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Config{})

	if _, err := s.Get(ctx, "posts"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Put(ctx, "posts", []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Path, "posts.json")); err != nil {
		t.Fatalf("expected posts.json on disk: %v", err)
	}

	got, err := s.Get(ctx, "posts")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("expected '[]', got %q", got)
	}

	if err := s.Delete(ctx, "posts"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "posts"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
	if _, err := s.Get(ctx, "posts"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_KeyValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Config{})

	for _, key := range []string{"", "../escape", "a/b", ".hidden", "sp ace"} {
		if err := s.Put(ctx, key, []byte("x")); err == nil {
			t.Errorf("expected invalid key error for %q", key)
		}
	}
	if err := s.Put(ctx, "posts.corrupt", []byte("x")); err != nil {
		t.Errorf("dotted keys should be accepted: %v", err)
	}
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Config{Extension: "yaml"})

	for _, key := range []string{"strategy", "posts", "theme"} {
		if err := s.Put(ctx, key, []byte("x: 1\n")); err != nil {
			t.Fatal(err)
		}
	}
	// Noise that must not surface as keys.
	for _, name := range []string{"notes.txt", ".serlyo.lock", TempFilePrefix + "abc", "other.json"} {
		if err := os.WriteFile(filepath.Join(s.Path, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	want := "posts,strategy,theme"
	if strings.Join(keys, ",") != want {
		t.Errorf("expected %s, got %v", want, keys)
	}
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "theme.json"), []byte(`"GOLD"`), 0644); err != nil {
		t.Fatal(err)
	}

	s := newTestStore(t, Config{Path: dir, ReadOnly: true})

	if _, err := s.Get(ctx, "theme"); err != nil {
		t.Errorf("reads must work in read-only mode: %v", err)
	}
	if err := s.Put(ctx, "theme", []byte(`"DARK"`)); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if err := s.Delete(ctx, "theme"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}

	missing := New(Config{Path: filepath.Join(dir, "nope"), ReadOnly: true})
	if err := missing.Initialize(ctx); err != nil {
		t.Errorf("read-only store on a missing path should initialize: %v", err)
	}
	if keys, err := missing.Keys(ctx); err != nil || len(keys) != 0 {
		t.Errorf("expected no keys, got %v %v", keys, err)
	}
}

func TestStore_MustExist(t *testing.T) {
	s := New(Config{Path: filepath.Join(t.TempDir(), "absent"), MustExist: true})
	if err := s.Initialize(context.Background()); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestStore_Versioning(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	s := newTestStore(t, Config{Versioning: true, AutoInit: true})

	ignore, err := os.ReadFile(filepath.Join(s.Path, ".gitignore"))
	if err != nil {
		t.Fatalf("expected .gitignore: %v", err)
	}
	if !strings.Contains(string(ignore), git.LockFile) {
		t.Errorf(".gitignore misses the lock file: %q", ignore)
	}

	reason := core.FormatChangeReason(core.ChangeTypeFeat, "posts", "create launch", "")
	if err := s.Put(core.WithChangeReason(ctx, reason), "posts", []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(ctx, "theme", []byte(`"DARK"`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Delete(ctx, "theme"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	history, err := s.History(ctx, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	want := []string{
		"chore(theme): delete theme",
		"chore(theme): update theme",
		"feat(posts): create launch",
		"chore: configure serlyo ignore rules",
	}
	if strings.Join(history, "|") != strings.Join(want, "|") {
		t.Errorf("unexpected history:\n got %v\nwant %v", history, want)
	}

	if _, err := os.Stat(filepath.Join(s.Path, git.LockFile)); !os.IsNotExist(err) {
		t.Error("lock file left behind")
	}
}

func TestStore_HistoryRequiresVersioning(t *testing.T) {
	s := newTestStore(t, Config{})
	if _, err := s.History(context.Background(), 1); err == nil {
		t.Error("expected error without versioning")
	}
}

func TestStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestStore(t, Config{})
	if err := s.Put(ctx, "strategy", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	events, err := s.Watch(ctx, "post*")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Another process writing the file directly.
	if err := os.WriteFile(filepath.Join(s.Path, "posts.json"), []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}
	// Not matched by the pattern.
	if err := s.Put(ctx, "strategy", []byte(`{"0":{}}`)); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-events:
		if e.Key != "posts" {
			t.Errorf("expected event for posts, got %v", e)
		}
		if e.Type != core.EventCreate {
			t.Errorf("expected CREATE, got %s", e.Type)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	if state := s.State().(StoreState); !state.WatcherActive {
		t.Error("watcher should be reported active")
	}

	cancel()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func TestStore_WatchInvalidPattern(t *testing.T) {
	s := newTestStore(t, Config{})
	if _, err := s.Watch(context.Background(), "[abc"); err == nil {
		t.Error("expected invalid pattern error")
	}
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Config{Extension: ".yaml"})
	if err := s.Put(ctx, "posts", []byte("[]\n")); err != nil {
		t.Fatal(err)
	}

	state, ok := s.State().(StoreState)
	if !ok {
		t.Fatalf("unexpected state type %T", s.State())
	}
	if state.Extension != ".yaml" || state.Writes != 1 || state.LastWrite == nil {
		t.Errorf("unexpected state: %+v", state)
	}
	if s.ComponentType() != "fs-store" {
		t.Errorf("unexpected component type %q", s.ComponentType())
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	got := make(chan core.Event, 4)
	emit := func(e core.Event) { got <- e }

	d.add(core.Event{Type: core.EventCreate, Key: "posts"}, emit)
	d.add(core.Event{Type: core.EventModify, Key: "posts"}, emit)
	d.add(core.Event{Type: core.EventModify, Key: "theme"}, emit)

	time.Sleep(100 * time.Millisecond)
	d.stopAndWait(time.Second)
	close(got)

	byKey := map[string]core.EventType{}
	for e := range got {
		if _, dup := byKey[e.Key]; dup {
			t.Errorf("duplicate event for %s", e.Key)
		}
		byKey[e.Key] = e.Type
	}
	if byKey["posts"] != core.EventCreate || byKey["theme"] != core.EventModify {
		t.Errorf("unexpected events: %v", byKey)
	}

	d.add(core.Event{Type: core.EventCreate, Key: "late"}, func(core.Event) {
		t.Error("stopped debouncer must not emit")
	})
}
