package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/serlyo/pkg/core"
)

func TestParsePostID(t *testing.T) {
	assert.Equal(t, core.PostID("42"), core.ParsePostID(" 42 "))
	assert.Equal(t,
		core.PostID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		core.ParsePostID("{6BA7B810-9DAD-11D1-80B4-00C04FD430C8}"),
	)
	assert.True(t, core.PostID("ABC ").Equal("ABC"))
	assert.False(t, core.PostID("abc").Equal("ABC"))
	assert.True(t, core.PostID("  ").IsZero())

	id := core.NewPostID()
	assert.Equal(t, id, id.Normalize())
}

func TestPostID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want core.PostID
	}{
		{`"abc"`, "abc"},
		{`17`, "17"},
		{`1700000000000`, "1700000000000"},
		{`"6BA7B810-9DAD-11D1-80B4-00C04FD430C8"`, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
	}
	for _, tt := range tests {
		var id core.PostID
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &id), tt.raw)
		assert.Equal(t, tt.want, id)
	}

	var id core.PostID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestPost_LegacyKeys(t *testing.T) {
	raw := `{"id": 7, "date": "2024-02-05", "title": "Old", "format": "Carrossel",
		"status": "PLANEJADO", "responsible": "Ana", "copy": "legacy copy"}`

	var p core.Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, core.PostID("7"), p.ID)
	assert.Equal(t, core.FormatCarousel, p.Format)
	assert.Equal(t, core.StatusPlanned, p.Status)
	assert.Equal(t, "Ana", p.Owner)
	assert.Equal(t, "legacy copy", p.Note)
	assert.True(t, p.Active())
}

func TestPost_JSONRoundTrip(t *testing.T) {
	in := core.Post{
		ID:         core.NewPostID(),
		Date:       "2024-02-05",
		Title:      "Launch",
		Format:     core.FormatReels,
		Status:     core.StatusInProduction,
		Owner:      "Bia",
		Network:    core.NetworkLinkedIn,
		IsArchived: true,
		Summary:    "s",
		Link:       "https://example.com",
		Note:       "n",
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format":"REELS"`)
	assert.Contains(t, string(data), `"status":"IN_PRODUCTION"`)
	assert.Contains(t, string(data), `"isArchived":true`)

	var out core.Post
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestPost_YAMLRoundTrip(t *testing.T) {
	in := core.Post{
		ID:     core.NewPostID(),
		Date:   "2024-02-07",
		Title:  "Story time",
		Format: core.FormatStories,
		Status: core.StatusScheduled,
	}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: STORIES")

	var out core.Post
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestPost_UnknownEnumLabels(t *testing.T) {
	var posts []core.Post
	raw := `[{"id":"a","format":"VIDEO","status":"IDEA"},{"id":"b","format":"VIDEO_LONG","status":"IDEA"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, core.FormatVideo, posts[0].Format)
	assert.Equal(t, core.FormatUnknown, posts[1].Format)
	assert.False(t, posts[1].Format.Valid())

	_, err := json.Marshal(posts[1])
	assert.Error(t, err, "unknown format must not be serialized")
}
