package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
)

// ExportDocument is the one-way dump of the whole planner state.
type ExportDocument struct {
	ExportedAt time.Time        `json:"exportedAt"`
	Version    string           `json:"version"`
	Theme      core.Theme       `json:"theme"`
	Strategy   core.StrategyMap `json:"strategy"`
	Posts      []core.Post      `json:"posts"`
}

// ExportFileName names an export taken at t.
func ExportFileName(t time.Time) string {
	return "serlyo-export-" + t.Format("20060102-150405") + ".json"
}

// Snapshot captures the current state as an export document.
func (p *Planner) Snapshot() ExportDocument {
	p.mu.RLock()
	defer p.mu.RUnlock()

	posts := p.posts.All()
	if posts == nil {
		posts = []core.Post{}
	}
	return ExportDocument{
		ExportedAt: p.cfg.now().UTC(),
		Version:    p.cfg.version,
		Theme:      p.theme,
		Strategy:   p.strategies.Get().Map(),
		Posts:      posts,
	}
}

// Export writes the snapshot as indented JSON.
func (p *Planner) Export(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := p.Snapshot()

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	p.logger.Info("state exported", "posts", len(doc.Posts))
	return nil
}
