package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// outputContext carries playlist position info into path resolution.
type outputContext struct {
	Playlist    *youtube.Playlist
	Index       int
	Total       int
	EntryTitle  string
	EntryAuthor string
}

// resolveOutputPath expands the request's template inside its output
// directory. The extension comes from the target container, not from the
// source stream, because muxing changes it.
func resolveOutputPath(req Request, video *youtube.Video, ext string, ctxInfo outputContext) string {
	template := req.OutputTemplate
	if template == "" {
		template = "{title}.{ext}"
	}

	title := sanitize(video.Title)
	artist := sanitize(video.Author)
	playlistTitle := ""
	index := ""
	total := ""
	if ctxInfo.Playlist != nil {
		playlistTitle = sanitize(ctxInfo.Playlist.Title)
		if ctxInfo.Index > 0 {
			index = strconv.Itoa(ctxInfo.Index)
		}
		if ctxInfo.Total > 0 {
			total = strconv.Itoa(ctxInfo.Total)
		}
		if ctxInfo.EntryTitle != "" {
			title = sanitize(ctxInfo.EntryTitle)
		}
		if ctxInfo.EntryAuthor != "" {
			artist = sanitize(ctxInfo.EntryAuthor)
		}
	}

	replacer := strings.NewReplacer(
		"{title}", title,
		"{artist}", artist,
		"{id}", sanitize(video.ID),
		"{ext}", ext,
		"{playlist_title}", playlistTitle,
		"{index}", index,
		"{count}", total,
	)
	name := replacer.Replace(template)
	if filepath.Ext(name) == "" {
		name = name + "." + ext
	}
	return filepath.Join(req.OutputDir, name)
}

var invalidPathChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

func sanitize(name string) string {
	clean := invalidPathChars.ReplaceAllString(name, "-")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "download"
	}
	return clean
}

// mimeToExt maps a stream MIME type to a file extension for temp files.
func mimeToExt(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	parts := strings.Split(mime, "/")
	if len(parts) == 2 {
		switch parts[1] {
		case "3gpp":
			return "3gp"
		default:
			return parts[1]
		}
	}
	return "bin"
}

// nextAvailablePath returns path itself when free, otherwise the first
// "name (N).ext" variant that does not exist yet.
func nextAvailablePath(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", wrapCategory(CategoryFilesystem, err)
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	for i := 1; i < 10000; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", name, i, ext))
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				return candidate, nil
			}
			return "", wrapCategory(CategoryFilesystem, err)
		}
	}
	return "", wrapCategory(CategoryFilesystem, fmt.Errorf("unable to find available filename for %s", path))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for n >= unit*div && exp < 4 {
		div *= unit
		exp++
	}
	value := float64(n) / float64(div)
	suffix := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.1f%s", value, suffix[exp])
}
