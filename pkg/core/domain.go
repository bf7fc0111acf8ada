// Package core holds the domain of the planner: posts, the weekly strategy,
// the calendar grid and the storage port every adapter implements.
package core

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PostID is the opaque identity of a post.
// Always build it through ParsePostID or NewPostID so comparisons stay canonical.
type PostID string

// NewPostID generates a fresh identifier.
func NewPostID() PostID {
	return PostID(uuid.NewString())
}

// ParsePostID normalizes raw input into the canonical identifier form.
// UUIDs are rendered lowercase with hyphens; anything else is trimmed.
func ParsePostID(raw string) PostID {
	s := strings.TrimSpace(raw)
	if u, err := uuid.Parse(s); err == nil {
		return PostID(u.String())
	}
	return PostID(s)
}

// Normalize returns the canonical form of id.
func (id PostID) Normalize() PostID {
	return ParsePostID(string(id))
}

// Equal compares two identifiers after normalization.
func (id PostID) Equal(other PostID) bool {
	return id.Normalize() == other.Normalize()
}

func (id PostID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is blank.
func (id PostID) IsZero() bool {
	return id.Normalize() == ""
}

// UnmarshalJSON accepts both strings and numbers. Older blobs stored numeric ids.
func (id *PostID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ParsePostID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = PostID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ParsePostID(n.String())
	return nil
}

// Post is the unit of content placed on a calendar date.
type Post struct {
	ID         PostID  `json:"id" yaml:"id"`
	Date       string  `json:"date" yaml:"date"` // YYYY-MM-DD
	Title      string  `json:"title" yaml:"title"`
	Format     Format  `json:"format" yaml:"format"`
	Status     Status  `json:"status" yaml:"status"`
	Owner      string  `json:"owner,omitempty" yaml:"owner,omitempty"`
	Network    Network `json:"network,omitempty" yaml:"network,omitempty"`
	IsArchived bool    `json:"isArchived" yaml:"isArchived"`
	Summary    string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Link       string  `json:"link,omitempty" yaml:"link,omitempty"`
	Note       string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// UnmarshalJSON decodes a post, mapping the legacy "responsible" and "copy" keys.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		*plain
		Responsible string `json:"responsible"`
		Copy        string `json:"copy"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.Owner == "" {
		p.Owner = aux.Responsible
	}
	if p.Note == "" {
		p.Note = aux.Copy
	}
	return nil
}

// Active reports whether the post is visible in active views.
func (p Post) Active() bool {
	return !p.IsArchived
}

// DayStrategy is the recurrence configuration of one weekday.
type DayStrategy struct {
	Active        bool   `json:"active" yaml:"active"`
	DefaultFormat Format `json:"defaultFormat" yaml:"defaultFormat"`
}

// Metadata represents free-form key-value pairs attached to exports and state dumps.
type Metadata map[string]any

// EventType represents the type of change in a store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
