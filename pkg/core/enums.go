package core

import (
	"fmt"
	"strings"
)

// Format is the closed set of content formats.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatPost
	FormatReels
	FormatStories
	FormatCarousel
	FormatVideo
)

// AllFormats lists every valid format in display order.
func AllFormats() []Format {
	return []Format{FormatPost, FormatReels, FormatStories, FormatCarousel, FormatVideo}
}

func (f Format) String() string {
	switch f {
	case FormatPost:
		return "POST"
	case FormatReels:
		return "REELS"
	case FormatStories:
		return "STORIES"
	case FormatCarousel:
		return "CAROUSEL"
	case FormatVideo:
		return "VIDEO"
	case FormatUnknown:
		return ""
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Valid reports whether f is a member of the enumeration.
func (f Format) Valid() bool {
	switch f {
	case FormatPost, FormatReels, FormatStories, FormatCarousel, FormatVideo:
		return true
	case FormatUnknown:
		return false
	}
	return false
}

// ParseFormat resolves a label, including the legacy ones, case-insensitively.
func ParseFormat(label string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "POST":
		return FormatPost, nil
	case "REELS", "REEL":
		return FormatReels, nil
	case "STORIES", "STORY":
		return FormatStories, nil
	case "CAROUSEL", "CARROSSEL":
		return FormatCarousel, nil
	case "VIDEO", "VIDEOS":
		return FormatVideo, nil
	}
	return FormatUnknown, fmt.Errorf("unknown format %q", label)
}

func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid format %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes an unrecognized label to FormatUnknown instead of
// failing, leaving the record to the caller's Valid check.
func (f *Format) UnmarshalText(text []byte) error {
	*f, _ = ParseFormat(string(text))
	return nil
}

// Status is the closed set of lifecycle statuses of a post.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusIdea
	StatusPlanned
	StatusInProduction
	StatusScheduled
	StatusPublished
	StatusPostponed
)

// AllStatuses lists every valid status in workflow order.
func AllStatuses() []Status {
	return []Status{StatusIdea, StatusPlanned, StatusInProduction, StatusScheduled, StatusPublished, StatusPostponed}
}

func (s Status) String() string {
	switch s {
	case StatusIdea:
		return "IDEA"
	case StatusPlanned:
		return "PLANNED"
	case StatusInProduction:
		return "IN_PRODUCTION"
	case StatusScheduled:
		return "SCHEDULED"
	case StatusPublished:
		return "PUBLISHED"
	case StatusPostponed:
		return "POSTPONED"
	case StatusUnknown:
		return ""
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Valid reports whether s is a member of the enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusIdea, StatusPlanned, StatusInProduction, StatusScheduled, StatusPublished, StatusPostponed:
		return true
	case StatusUnknown:
		return false
	}
	return false
}

// ParseStatus resolves a label. Portuguese labels written by older versions are accepted.
func ParseStatus(label string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	switch normalized {
	case "IDEA", "IDEIA":
		return StatusIdea, nil
	case "PLANNED", "PLANEJADO":
		return StatusPlanned, nil
	case "IN_PRODUCTION", "PRODUCTION", "PRODUÇÃO", "PRODUCAO":
		return StatusInProduction, nil
	case "SCHEDULED", "AGENDADO":
		return StatusScheduled, nil
	case "PUBLISHED", "PUBLICADO", "POSTADO":
		return StatusPublished, nil
	case "POSTPONED", "ADIADO":
		return StatusPostponed, nil
	}
	return StatusUnknown, fmt.Errorf("unknown status %q", label)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes an unrecognized label to StatusUnknown, like Format.
func (s *Status) UnmarshalText(text []byte) error {
	*s, _ = ParseStatus(string(text))
	return nil
}

// Network is the social network a post targets. The zero value means unset.
type Network uint8

const (
	NetworkNone Network = iota
	NetworkInstagram
	NetworkLinkedIn
)

// networkUnrecognized marks a decoded label that names no known network.
const networkUnrecognized = Network(^uint8(0))

func (n Network) String() string {
	switch n {
	case NetworkInstagram:
		return "INSTAGRAM"
	case NetworkLinkedIn:
		return "LINKEDIN"
	case NetworkNone:
		return ""
	}
	return fmt.Sprintf("Network(%d)", uint8(n))
}

// Valid reports whether n is unset or a known network.
func (n Network) Valid() bool {
	switch n {
	case NetworkNone, NetworkInstagram, NetworkLinkedIn:
		return true
	}
	return false
}

// ParseNetwork resolves a label. An empty label yields NetworkNone.
func ParseNetwork(label string) (Network, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "":
		return NetworkNone, nil
	case "INSTAGRAM":
		return NetworkInstagram, nil
	case "LINKEDIN":
		return NetworkLinkedIn, nil
	}
	return NetworkNone, fmt.Errorf("unknown network %q", label)
}

func (n Network) MarshalText() ([]byte, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid network %d", uint8(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText decodes an unrecognized label to a value that fails Valid.
func (n *Network) UnmarshalText(text []byte) error {
	parsed, err := ParseNetwork(string(text))
	if err != nil {
		parsed = networkUnrecognized
	}
	*n = parsed
	return nil
}

// Theme is the persisted UI palette selector.
type Theme uint8

const (
	ThemeLight Theme = iota
	ThemeDark
	ThemeGold
)

// AllThemes lists the available palettes.
func AllThemes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeGold}
}

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "LIGHT"
	case ThemeDark:
		return "DARK"
	case ThemeGold:
		return "GOLD"
	}
	return fmt.Sprintf("Theme(%d)", uint8(t))
}

// ParseTheme resolves a palette label.
func ParseTheme(label string) (Theme, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "LIGHT":
		return ThemeLight, nil
	case "DARK":
		return ThemeDark, nil
	case "GOLD":
		return ThemeGold, nil
	}
	return ThemeLight, fmt.Errorf("unknown theme %q", label)
}

func (t Theme) MarshalText() ([]byte, error) {
	switch t {
	case ThemeLight, ThemeDark, ThemeGold:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("cannot marshal invalid theme %d", uint8(t))
}

func (t *Theme) UnmarshalText(text []byte) error {
	parsed, err := ParseTheme(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
