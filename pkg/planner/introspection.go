package planner

import (
	"time"

	"github.com/aretw0/introspection"
)

// PlannerState exposes internal state for observability.
type PlannerState struct {
	ActivePosts    int        `json:"active_posts"`
	ArchivedPosts  int        `json:"archived_posts"`
	ActiveWeekdays []string   `json:"active_weekdays"`
	ConflictPolicy string     `json:"conflict_policy"`
	LifecycleMode  string     `json:"lifecycle_mode"`
	Theme          string     `json:"theme"`
	Serializer     string     `json:"serializer"`
	LoadedAt       *time.Time `json:"loaded_at,omitempty"`
	Store          any        `json:"store,omitempty"`
	StoreType      string     `json:"store_type,omitempty"`
}

// State implements introspection.Introspectable.
func (p *Planner) State() any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	active, archived := p.posts.Counts()
	days := make([]string, 0, 7)
	for _, d := range p.strategies.Get().ActiveDays() {
		days = append(days, d.String())
	}

	state := PlannerState{
		ActivePosts:    active,
		ArchivedPosts:  archived,
		ActiveWeekdays: days,
		ConflictPolicy: p.cfg.policyName,
		LifecycleMode:  p.lifecycle.Mode().String(),
		Theme:          p.theme.String(),
		Serializer:     p.cfg.serializer.Name(),
		LoadedAt:       p.loadedAt,
	}
	if intro, ok := p.store.(introspection.Introspectable); ok {
		state.Store = intro.State()
	}
	if comp, ok := p.store.(introspection.Component); ok {
		state.StoreType = comp.ComponentType()
	}
	return state
}

// ComponentType implements introspection.Component.
func (p *Planner) ComponentType() string {
	return "planner"
}

var _ introspection.Introspectable = (*Planner)(nil)
var _ introspection.Component = (*Planner)(nil)
