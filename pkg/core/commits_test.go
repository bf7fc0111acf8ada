package core

import (
	"context"
	"testing"
)

func TestFormatChangeReason(t *testing.T) {
	tests := []struct {
		name    string
		ctype   string
		scope   string
		subject string
		body    string
		want    string
	}{
		{
			name:    "simple",
			ctype:   "feat",
			subject: "create post",
			want:    "feat: create post\n\nPowered-by: Serlyo",
		},
		{
			name:    "with scope",
			ctype:   "chore",
			scope:   "posts",
			subject: "archive abc",
			want:    "chore(posts): archive abc\n\nPowered-by: Serlyo",
		},
		{
			name:    "with body",
			ctype:   "feat",
			scope:   "generate",
			subject: "plan 2024-02",
			body:    "8 posts created.\n",
			want:    "feat(generate): plan 2024-02\n\n8 posts created.\n\nPowered-by: Serlyo",
		},
		{
			name:    "empty type defaults to chore",
			subject: "sync",
			want:    "chore: sync\n\nPowered-by: Serlyo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatChangeReason(tt.ctype, tt.scope, tt.subject, tt.body)
			if got != tt.want {
				t.Errorf("FormatChangeReason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendFooter(t *testing.T) {
	if got := AppendFooter("manual edit"); got != "manual edit\n\nPowered-by: Serlyo" {
		t.Errorf("unexpected footer: %q", got)
	}
	already := "x\n\nPowered-by: Serlyo"
	if got := AppendFooter(already); got != already {
		t.Errorf("footer duplicated: %q", got)
	}
}

func TestChangeReason(t *testing.T) {
	ctx := context.Background()
	if got := ChangeReason(ctx, "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	ctx = WithChangeReason(ctx, "feat: x")
	if got := ChangeReason(ctx, "fallback"); got != "feat: x" {
		t.Errorf("expected reason from context, got %q", got)
	}
}
