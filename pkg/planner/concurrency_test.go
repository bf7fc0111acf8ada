package planner_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/serlyo/pkg/adapters/fs"
	"github.com/aretw0/serlyo/pkg/adapters/memory"
	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

// TestConcurrency_WritersDoNotLoseUpdates runs creates, archives and strategy
// changes from many goroutines and checks every write survives a reload.
func TestConcurrency_WritersDoNotLoseUpdates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	stores := map[string]func(t *testing.T) core.Store{
		"memory": func(t *testing.T) core.Store { return memory.New() },
		"fs": func(t *testing.T) core.Store {
			s := fs.New(fs.Config{Path: t.TempDir()})
			require.NoError(t, s.Initialize(context.Background()))
			return s
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)
			p := newTestPlanner(t, store)

			const writers = 8
			const perWriter = 10

			var wg sync.WaitGroup
			errs := make(chan error, writers*perWriter*2)
			for w := range writers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := range perWriter {
						post := samplePost(core.FormatDate(core.Day(2024, time.March, 1+i)))
						post.Title = fmt.Sprintf("writer %d post %d", w, i)
						created, err := p.Create(ctx, post)
						if err != nil {
							errs <- err
							continue
						}
						if i%2 == 0 {
							if _, err := p.Archive(ctx, created.ID); err != nil {
								errs <- err
							}
						}
					}
					if err := p.SetActive(ctx, time.Weekday(w%7), w%2 == 0); err != nil {
						errs <- err
					}
				}()
			}

			// Readers run alongside the writers.
			done := make(chan struct{})
			go func() {
				defer close(done)
				for range 50 {
					_ = p.PostsInMonth(2024, time.March)
					_ = p.State()
					_ = p.Snapshot()
				}
			}()

			wg.Wait()
			<-done
			close(errs)
			for err := range errs {
				t.Errorf("unexpected error: %v", err)
			}

			assert.Len(t, p.Posts(), writers*perWriter)
			assert.Len(t, p.ArchivedPosts(), writers*perWriter/2)

			again := planner.New(store)
			require.NoError(t, again.Load(ctx))
			assert.ElementsMatch(t, p.Posts(), again.Posts())
			assert.Equal(t, p.Strategy(), again.Strategy())
		})
	}
}
