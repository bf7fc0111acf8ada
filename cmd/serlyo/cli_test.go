package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/serlyo"
	"github.com/aretw0/serlyo/internal/platform"
	"github.com/aretw0/serlyo/pkg/adapters/lifecycle"
	"github.com/aretw0/serlyo/pkg/adapters/sqlite"
	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/git"
	"github.com/aretw0/serlyo/pkg/planner"
)

// resetFlags restores every flag to its default between executions of the
// shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "serlyo %s", strings.Join(args, " "))
	return out
}

func listPosts(t *testing.T, dir string, extra ...string) []core.Post {
	t.Helper()
	out := mustExecute(t, append([]string{"list", "--json", "--dir", dir}, extra...)...)
	var posts []core.Post
	require.NoError(t, json.Unmarshal([]byte(out), &posts))
	return posts
}

func createdID(t *testing.T, out string) string {
	t.Helper()
	line := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(line, "Post created: "), line)
	return strings.TrimPrefix(line, "Post created: ")
}

func TestCLI_GenerateIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, "generate", "2024-02", "--dir", dir)
	assert.Contains(t, out, "Created 21 post(s) for 2024-02")

	_, err := os.Stat(filepath.Join(dir, "posts.json"))
	require.NoError(t, err)

	posts := listPosts(t, dir, "--month", "2024-02")
	assert.Len(t, posts, 21)
	for _, p := range posts {
		assert.Equal(t, planner.DefaultOwner, p.Owner)
		assert.Equal(t, core.StatusPlanned, p.Status)
	}

	out = mustExecute(t, "generate", "2024-02", "--dir", dir)
	assert.Contains(t, out, "Created 0 post(s) for 2024-02")
	assert.Len(t, listPosts(t, dir), 21)
}

func TestCLI_GenerateDryRun(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, "generate", "2024-02", "--dry-run", "--dir", dir)
	assert.Contains(t, out, "Would create 21 post(s) for 2024-02")

	_, err := os.Stat(filepath.Join(dir, "posts.json"))
	assert.True(t, os.IsNotExist(err), "dry run must not write")
}

func TestCLI_PostLifecycle(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, "add", "2024-03-08", "--dir", dir, "--title", "Launch teaser", "--format", "reels")
	id := createdID(t, out)

	out = mustExecute(t, "edit", id, "--dir", dir, "--status", "published", "--owner", "Ana")
	assert.Contains(t, out, "Post updated: "+id)

	posts := listPosts(t, dir)
	require.Len(t, posts, 1)
	assert.Equal(t, "Launch teaser", posts[0].Title)
	assert.Equal(t, core.FormatReels, posts[0].Format)
	assert.Equal(t, core.StatusPublished, posts[0].Status)
	assert.Equal(t, "Ana", posts[0].Owner)
	assert.Equal(t, "2024-03-08", posts[0].Date)

	out = mustExecute(t, "archive", id, "--dir", dir)
	assert.Contains(t, out, "Post archived: "+id)
	assert.Empty(t, listPosts(t, dir))
	assert.Len(t, listPosts(t, dir, "--archived"), 1)

	out = mustExecute(t, "archive", id, "--dir", dir)
	assert.Contains(t, out, "Nothing to do for "+id)

	out = mustExecute(t, "restore", id, "--dir", dir)
	assert.Contains(t, out, "Post restored: "+id)
	assert.Len(t, listPosts(t, dir), 1)

	_, err := executeWithInput(t, "n\n", "delete", id, "--dir", dir)
	assert.EqualError(t, err, "aborted")
	assert.Len(t, listPosts(t, dir), 1)

	out, err = executeWithInput(t, "y\n", "delete", id, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Post deleted: "+id)
	assert.Empty(t, listPosts(t, dir))
	assert.Empty(t, listPosts(t, dir, "--archived"))
}

func TestCLI_AddUsesStrategyFormat(t *testing.T) {
	dir := t.TempDir()

	// Tuesday defaults to REELS.
	mustExecute(t, "add", "2024-02-06", "--dir", dir, "--title", "Tips")
	posts := listPosts(t, dir)
	require.Len(t, posts, 1)
	assert.Equal(t, core.FormatReels, posts[0].Format)
	assert.Empty(t, posts[0].Owner, "only generated posts carry the system owner")

	mustExecute(t, "add", "2024-02-07", "--dir", dir, "--title", "Q&A", "--owner", "Ana")
	posts = listPosts(t, dir)
	require.Len(t, posts, 2)
	assert.Equal(t, "Ana", posts[1].Owner)
}

func TestCLI_AddRejectsInvalidPost(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "add", "2024-02-06", "--dir", dir)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = execute(t, "add", "2024-02-31", "--dir", dir, "--title", "Nope")
	assert.Error(t, err)

	_, err = execute(t, "add", "2024-02-06", "--dir", dir, "--title", "Nope", "--format", "podcast")
	assert.Error(t, err)

	_, err = execute(t, "edit", "missing", "--dir", dir, "--title", "x")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCLI_Search(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, "add", "2024-02-05", "--dir", dir, "--title", "Launch teaser")
	out := mustExecute(t, "add", "2024-02-07", "--dir", dir, "--title", "Customer story")
	mustExecute(t, "archive", createdID(t, out), "--dir", dir)

	found := listPosts(t, dir, "--search", "LAUNCH")
	require.Len(t, found, 1)
	assert.Equal(t, "Launch teaser", found[0].Title)

	assert.Empty(t, listPosts(t, dir, "--search", "customer"))
	assert.Len(t, listPosts(t, dir, "--search", "customer", "--archived"), 1)
}

func TestCLI_Strategy(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, "strategy", "set", "sat", "--active", "--format", "stories", "--dir", dir)
	assert.Contains(t, out, "Saturday: active=true format=STORIES")

	var m core.StrategyMap
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "strategy", "--json", "--dir", dir)), &m))
	assert.True(t, m[int(time.Saturday)].Active)

	out = mustExecute(t, "generate", "2024-02", "--dir", dir)
	assert.Contains(t, out, "Created 25 post(s)")

	mustExecute(t, "strategy", "reset", "--dir", dir)
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "strategy", "--json", "--dir", dir)), &m))
	assert.False(t, m[int(time.Saturday)].Active)

	_, err := execute(t, "strategy", "set", "sat", "--dir", dir)
	assert.Error(t, err)
	_, err = execute(t, "strategy", "set", "sat", "--active", "--inactive", "--dir", dir)
	assert.Error(t, err)
	_, err = execute(t, "strategy", "set", "funday", "--active", "--dir", dir)
	assert.Error(t, err)
}

func TestCLI_Theme(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "LIGHT\n", mustExecute(t, "theme", "--dir", dir))
	assert.Equal(t, "DARK\n", mustExecute(t, "theme", "dark", "--dir", dir))
	assert.Equal(t, "DARK\n", mustExecute(t, "theme", "--dir", dir))

	_, err := execute(t, "theme", "purple", "--dir", dir)
	assert.Error(t, err)
}

func TestCLI_Month(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, "add", "2023-12-20", "--dir", dir, "--title", "Year in review")

	out := mustExecute(t, "month", "2023-12", "--dir", dir)
	assert.Contains(t, out, "December 2023")
	assert.Contains(t, out, "2023-12-25 Mon  holiday: Natal")
	assert.Contains(t, out, "Year in review")

	var days []gridDay
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "month", "2023-12", "--json", "--dir", dir)), &days))
	require.Len(t, days, 31)
	assert.Equal(t, "Natal", days[24].Holiday)
	assert.Len(t, days[19].Posts, 1)
	assert.NotNil(t, days[0].Posts)
}

func TestCLI_Export(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2024, time.February, 1, 9, 30, 0, 0, time.Local)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	mustExecute(t, "generate", "2024-02", "--dir", dir)
	mustExecute(t, "theme", "gold", "--dir", dir)

	out := mustExecute(t, "export", "--dir", dir)
	path := filepath.Join(dir, "serlyo-export-20240201-093000.json")
	assert.Contains(t, out, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc planner.ExportDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Posts, 21)
	assert.Equal(t, core.ThemeGold, doc.Theme)
	assert.Equal(t, serlyo.Version, doc.Version)

	out = mustExecute(t, "export", "-o", "-", "--dir", dir)
	assert.Contains(t, out, `"exportedAt"`)
}

func TestCLI_Status(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, "generate", "2024-02", "--dir", dir)

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "status", "--dir", dir)), &status))
	assert.Equal(t, "planner", status["component"])
	assert.Contains(t, status, "store")
	assert.Contains(t, status, "metrics")
	assert.NotContains(t, status, "history")

	state, ok := status["planner"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 21, state["active_posts"])
}

func TestCLI_Adapters(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, "generate", "2024-02", "--adapter", "sqlite", "--dir", dir)
	assert.Contains(t, out, "Created 21 post(s)")
	_, err := os.Stat(filepath.Join(dir, sqlite.DefaultFile))
	require.NoError(t, err)
	assert.Len(t, listPosts(t, dir, "--adapter", "sqlite"), 21)

	_, err = execute(t, "watch", "--adapter", "sqlite", "--dir", dir)
	assert.ErrorIs(t, err, lifecycle.ErrWatchUnsupported)

	mustExecute(t, "generate", "2024-02", "--adapter", "memory", "--dir", dir)
	assert.Empty(t, listPosts(t, dir), "fs store is untouched by other adapters")

	_, err = execute(t, "list", "--adapter", "carrier-pigeon", "--dir", dir)
	assert.Error(t, err)
}

func TestCLI_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, "generate", "2024-02", "--dir", dir)

	_, err := execute(t, "add", "2024-02-06", "--read-only", "--dir", dir, "--title", "Blocked")
	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.Len(t, listPosts(t, dir, "--read-only"), 21)
}

func TestCLI_Init(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, "init", "--dir", dir)
	assert.Contains(t, out, "Wrote "+filepath.Join(dir, platform.ConfigFileName))
	assert.Contains(t, out, "Initialized serlyo planner in "+dir)

	out = mustExecute(t, "init", "--dir", dir)
	assert.Contains(t, out, "Keeping existing")

	cfg, err := platform.LoadConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, platform.DefaultConfig(), cfg)
}

func TestCLI_InitVersioned(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	mustExecute(t, "init", "--versioning", "--dir", dir)
	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err)

	mustExecute(t, "generate", "2024-02", "--dir", dir)

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "status", "--history", "1", "--dir", dir)), &status))
	history, ok := status["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, "feat(generate): plan 2024-02", history[0])
}

func TestCLI_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := platform.DefaultConfig()
	cfg.Planner.ConflictPolicy = "whatever"
	_, err := platform.WriteDefaultConfig(dir, cfg)
	require.NoError(t, err)

	_, err = execute(t, "list", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestCLI_Version(t *testing.T) {
	out := mustExecute(t, "version")
	assert.Equal(t, "serlyo version "+serlyo.Version+"\n", out)
}
