package planner_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/serlyo/pkg/adapters/memory"
	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

var errDiskFull = errors.New("disk full")

// faultyStore wraps a memory store, failing writes on demand and recording
// the change reason of every write.
type faultyStore struct {
	*memory.Store

	mu      sync.Mutex
	failPut bool
	reasons []string
	puts    int
}

func newFaultyStore(opts ...memory.Option) *faultyStore {
	return &faultyStore{Store: memory.New(opts...)}
}

func (s *faultyStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut = fail
}

func (s *faultyStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	fail := s.failPut
	if !fail {
		s.puts++
		s.reasons = append(s.reasons, core.ChangeReason(ctx, ""))
	}
	s.mu.Unlock()

	if fail {
		return errDiskFull
	}
	return s.Store.Put(ctx, key, data)
}

func (s *faultyStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *faultyStore) LastReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reasons) == 0 {
		return ""
	}
	return s.reasons[len(s.reasons)-1]
}

func sequentialIDs() func() core.PostID {
	var mu sync.Mutex
	n := 0
	return func() core.PostID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return core.PostID(fmt.Sprintf("post-%03d", n))
	}
}

// mondayWednesday activates Monday (POST) and Wednesday (REELS) only.
func mondayWednesday() core.WeeklyStrategy {
	var s core.WeeklyStrategy
	for i := range s {
		s[i] = core.DayStrategy{DefaultFormat: core.FormatStories}
	}
	s[time.Monday] = core.DayStrategy{Active: true, DefaultFormat: core.FormatPost}
	s[time.Wednesday] = core.DayStrategy{Active: true, DefaultFormat: core.FormatReels}
	return s
}

func newTestPlanner(t *testing.T, store core.Store, opts ...planner.Option) *planner.Planner {
	t.Helper()
	base := []planner.Option{planner.WithIDGenerator(sequentialIDs())}
	p := planner.New(store, append(base, opts...)...)
	require.NoError(t, p.Load(context.Background()))
	return p
}

func samplePost(date string) core.Post {
	return core.Post{
		Date:   date,
		Title:  "Launch teaser",
		Format: core.FormatPost,
		Status: core.StatusIdea,
		Owner:  "Ana",
	}
}
