package downloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kkdai/youtube/v2"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "My Song", want: "My Song"},
		{name: "slashes", input: "AC/DC - Back in Black", want: "AC-DC - Back in Black"},
		{name: "windows reserved", input: `a<b>c:d"e|f?g*h`, want: "a-b-c-d-e-f-g-h"},
		{name: "control chars", input: "tab\there", want: "tab-here"},
		{name: "surrounding spaces", input: "  padded  ", want: "padded"},
		{name: "empty falls back", input: "", want: "download"},
		{name: "only invalid chars", input: "???", want: "---"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitize(tc.input); got != tc.want {
				t.Fatalf("sanitize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMimeToExt(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "audio/mp4", want: "mp4"},
		{input: "audio/webm; codecs=\"opus\"", want: "webm"},
		{input: "video/3gpp", want: "3gp"},
		{input: "video/mp4; codecs=\"avc1.640028\"", want: "mp4"},
		{input: "garbage", want: "bin"},
	}

	for _, tc := range cases {
		if got := mimeToExt(tc.input); got != tc.want {
			t.Errorf("mimeToExt(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestResolveOutputPath(t *testing.T) {
	req := Request{
		OutputDir:      filepath.Join("base", "Audio"),
		OutputTemplate: "{title}.{ext}",
	}
	video := &youtube.Video{ID: "abc123", Title: "Song: Live/2024", Author: "The Band"}

	got := resolveOutputPath(req, video, "m4a", outputContext{})
	want := filepath.Join("base", "Audio", "Song- Live-2024.m4a")
	if got != want {
		t.Fatalf("resolveOutputPath = %q, want %q", got, want)
	}
}

func TestResolveOutputPath_PlaylistPlaceholders(t *testing.T) {
	req := Request{
		OutputDir:      "out",
		OutputTemplate: "{playlist_title}/{index} - {title}.{ext}",
	}
	video := &youtube.Video{ID: "abc123", Title: "Fetched Title", Author: "Uploader"}
	ctxInfo := outputContext{
		Playlist:   &youtube.Playlist{Title: "Mix"},
		Index:      3,
		Total:      10,
		EntryTitle: "Entry Title",
	}

	got := resolveOutputPath(req, video, "mkv", ctxInfo)
	want := filepath.Join("out", "Mix", "3 - Entry Title.mkv")
	if got != want {
		t.Fatalf("resolveOutputPath = %q, want %q", got, want)
	}
}

func TestResolveOutputPath_MissingExtension(t *testing.T) {
	req := Request{OutputDir: "out", OutputTemplate: "{title}"}
	video := &youtube.Video{ID: "abc123", Title: "NoExt"}

	got := resolveOutputPath(req, video, "m4a", outputContext{})
	want := filepath.Join("out", "NoExt.m4a")
	if got != want {
		t.Fatalf("resolveOutputPath = %q, want %q", got, want)
	}
}

func TestNextAvailablePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.m4a")

	got, err := nextAvailablePath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Fatalf("free path should come back unchanged, got %q", got)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = nextAvailablePath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "track (1).m4a")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if err := os.WriteFile(want, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = nextAvailablePath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = filepath.Join(dir, "track (2).m4a")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		input int64
		want  string
	}{
		{input: 0, want: "0B"},
		{input: 512, want: "512B"},
		{input: 2048, want: "2.0KB"},
		{input: 5 * 1024 * 1024, want: "5.0MB"},
		{input: 3 * 1024 * 1024 * 1024, want: "3.0GB"},
	}

	for _, tc := range cases {
		if got := humanBytes(tc.input); got != tc.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
