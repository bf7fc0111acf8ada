package core

import "testing"

func TestFormat_Labels(t *testing.T) {
	for _, f := range AllFormats() {
		if !f.Valid() {
			t.Fatalf("%v should be valid", f)
		}
		parsed, err := ParseFormat(f.String())
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", f.String(), err)
		}
		if parsed != f {
			t.Errorf("expected %v, got %v", f, parsed)
		}
	}

	aliases := map[string]Format{"reels": FormatReels, "Story": FormatStories, "Carrossel": FormatCarousel, " post ": FormatPost, "Video": FormatVideo}
	for label, want := range aliases {
		got, err := ParseFormat(label)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", label, got, err, want)
		}
	}

	if FormatUnknown.Valid() {
		t.Error("zero format must be invalid")
	}
	if _, err := ParseFormat("VIDEO_LONG"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestUnmarshalText_UnknownLabels(t *testing.T) {
	var f Format
	if err := f.UnmarshalText([]byte("PODCAST")); err != nil || f != FormatUnknown {
		t.Errorf("format: got %v, %v; want FormatUnknown, nil", f, err)
	}
	var s Status
	if err := s.UnmarshalText([]byte("ARQUIVADO")); err != nil || s != StatusUnknown {
		t.Errorf("status: got %v, %v; want StatusUnknown, nil", s, err)
	}
	var n Network
	if err := n.UnmarshalText([]byte("MYSPACE")); err != nil || n.Valid() {
		t.Errorf("network: got %v, %v; want an invalid value", n, err)
	}
	if err := n.UnmarshalText([]byte("")); err != nil || n != NetworkNone {
		t.Errorf("empty network: got %v, %v; want NetworkNone", n, err)
	}
}

func TestStatus_Labels(t *testing.T) {
	for _, s := range AllStatuses() {
		parsed, err := ParseStatus(s.String())
		if err != nil || parsed != s {
			t.Errorf("ParseStatus(%q) = %v, %v", s.String(), parsed, err)
		}
	}

	legacy := map[string]Status{
		"IDEIA":         StatusIdea,
		"PLANEJADO":     StatusPlanned,
		"PRODUÇÃO":      StatusInProduction,
		"produção":      StatusInProduction,
		"AGENDADO":      StatusScheduled,
		"PUBLICADO":     StatusPublished,
		"POSTADO":       StatusPublished,
		"ADIADO":        StatusPostponed,
		"in-production": StatusInProduction,
	}
	for label, want := range legacy {
		got, err := ParseStatus(label)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %v, %v; want %v", label, got, err, want)
		}
	}

	if StatusUnknown.Valid() {
		t.Error("zero status must be invalid")
	}
}

func TestNetworkAndTheme(t *testing.T) {
	n, err := ParseNetwork("")
	if err != nil || n != NetworkNone {
		t.Errorf("empty network should be NetworkNone, got %v %v", n, err)
	}
	if _, err := ParseNetwork("myspace"); err == nil {
		t.Error("expected error for unknown network")
	}

	for _, th := range AllThemes() {
		parsed, err := ParseTheme(th.String())
		if err != nil || parsed != th {
			t.Errorf("ParseTheme(%q) = %v, %v", th.String(), parsed, err)
		}
	}
	if _, err := ParseTheme("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}
