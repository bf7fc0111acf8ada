// Package fs implements core.Store on a directory: one file per key,
// atomic writes and optional git versioning of every change.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/git"
)

// DefaultExtension is used when Config.Extension is empty.
const DefaultExtension = ".json"

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path       string
	Extension  string // file extension of every blob, e.g. ".json" or ".yaml"
	Versioning bool   // commit every write with git
	AutoInit   bool   // run git init when Path is not a repository
	MustExist  bool   // fail Initialize instead of creating Path
	ReadOnly   bool
	Logger     *slog.Logger
	// ErrorHandler receives errors raised inside the watch goroutine.
	ErrorHandler func(error)
}

// Store implements core.Store on the filesystem.
type Store struct {
	Path   string
	config Config
	git    *git.Client
	logger *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	writes        int
}

// New creates a filesystem store. Call Initialize before use.
func New(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Extension == "" {
		config.Extension = DefaultExtension
	}
	if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	return &Store{
		Path:   config.Path,
		config: config,
		git:    git.NewClient(config.Path, config.Logger),
		logger: config.Logger,
	}
}

// Initialize prepares the directory and, when versioning, the git repository.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if err != nil {
			if os.IsNotExist(err) && s.config.ReadOnly && !s.config.MustExist {
				return nil
			}
			return fmt.Errorf("store path does not exist: %s", s.Path)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", s.Path)
		}
	} else if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if !s.config.Versioning || s.config.ReadOnly {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !s.git.IsRepo() {
		if !s.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", s.Path)
		}
		if err := s.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := s.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		if err := s.git.Add(ctx, ".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		msg := core.FormatChangeReason(core.ChangeTypeChore, "", "configure serlyo ignore rules", "")
		if err := s.git.Commit(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore keeps the lock file and in-flight temp files out of history.
func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.Path, ".gitignore")
	wanted := []string{git.LockFile, TempFilePrefix + "*"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, entry := range wanted {
		if !present[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) filename(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return key + s.config.Extension, nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filename, err := s.filename(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.Path, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return data, nil
}

// Put writes the blob atomically and, when versioning, commits it.
// The commit message is the change reason carried by ctx.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.config.ReadOnly {
		return fmt.Errorf("%w: put %s", core.ErrReadOnly, key)
	}
	filename, err := s.filename(key)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.Path, filename)

	if !s.config.Versioning {
		if err := writeFileAtomic(fullPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		s.recordWrite()
		s.logger.Debug("blob written", "key", key, "bytes", len(data))
		return nil
	}

	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	s.recordWrite()

	if err := s.git.Add(ctx, filename); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}

	fallback := core.FormatChangeReason(core.ChangeTypeChore, key, "update "+key, "")
	msg := core.AppendFooter(core.ChangeReason(ctx, fallback))
	if err := s.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	s.logger.Debug("blob committed", "key", key, "bytes", len(data))
	return nil
}

// Delete implements core.Store. A missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.config.ReadOnly {
		return fmt.Errorf("%w: delete %s", core.ErrReadOnly, key)
	}
	filename, err := s.filename(key)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.Path, filename)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	if !s.config.Versioning {
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		s.recordWrite()
		return nil
	}

	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := s.git.Rm(ctx, filename); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	s.recordWrite()

	fallback := core.FormatChangeReason(core.ChangeTypeChore, key, "delete "+key, "")
	if err := s.git.Commit(ctx, core.AppendFooter(core.ChangeReason(ctx, fallback))); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// Keys implements core.Store.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", s.Path, err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := s.keyOf(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// keyOf maps a file name back to its key. Temp files, hidden files and
// files with another extension are not keys.
func (s *Store) keyOf(name string) (string, bool) {
	base := filepath.Base(name)
	if isTempFile(base) || strings.HasPrefix(base, ".") {
		return "", false
	}
	if !strings.HasSuffix(base, s.config.Extension) {
		return "", false
	}
	key := strings.TrimSuffix(base, s.config.Extension)
	if !validKey.MatchString(key) {
		return "", false
	}
	return key, true
}

// History returns the last n change reasons recorded for the store.
func (s *Store) History(ctx context.Context, n int) ([]string, error) {
	if !s.config.Versioning {
		return nil, fmt.Errorf("history requires versioning")
	}
	return s.git.Log(ctx, n)
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastWrite = &now
	s.writes++
}

func (s *Store) handleError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	s.logger.Error("fs store error", "error", err)
}

var (
	_ core.Store     = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
)
