package downloader

import (
	"testing"

	"github.com/kkdai/youtube/v2"
)

func makeEntries(n int) []*youtube.PlaylistEntry {
	entries := make([]*youtube.PlaylistEntry, n)
	for i := range entries {
		entries[i] = &youtube.PlaylistEntry{ID: "id", Title: "title"}
	}
	return entries
}

func TestLimitEntries(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		limit   int
		wantLen int
	}{
		{name: "zero limit keeps all", size: 5, limit: 0, wantLen: 5},
		{name: "negative limit keeps all", size: 5, limit: -1, wantLen: 5},
		{name: "limit below size truncates", size: 5, limit: 3, wantLen: 3},
		{name: "limit equals size", size: 5, limit: 5, wantLen: 5},
		{name: "limit beyond size keeps all", size: 3, limit: 10, wantLen: 3},
		{name: "empty playlist", size: 0, limit: 10, wantLen: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := limitEntries(makeEntries(tc.size), tc.limit)
			if len(got) != tc.wantLen {
				t.Fatalf("limitEntries(%d entries, limit %d) kept %d, want %d",
					tc.size, tc.limit, len(got), tc.wantLen)
			}
		})
	}
}

func TestEntryTitle(t *testing.T) {
	if got := entryTitle(nil); got != "" {
		t.Fatalf("nil entry: got %q", got)
	}
	if got := entryTitle(&youtube.PlaylistEntry{ID: "abc"}); got != "abc" {
		t.Fatalf("untitled entry should fall back to ID, got %q", got)
	}
	if got := entryTitle(&youtube.PlaylistEntry{ID: "abc", Title: "Song"}); got != "Song" {
		t.Fatalf("titled entry: got %q", got)
	}
}
