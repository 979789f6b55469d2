package downloader

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkdai/youtube/v2"
)

// limitEntries clamps a playlist to the requested item limit. A limit of
// zero, or one beyond the playlist's actual size, means everything.
func limitEntries(entries []*youtube.PlaylistEntry, limit int) []*youtube.PlaylistEntry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[:limit]
}

func entryTitle(entry *youtube.PlaylistEntry) string {
	if entry == nil {
		return ""
	}
	if entry.Title != "" {
		return entry.Title
	}
	return entry.ID
}

func processPlaylist(ctx context.Context, url string, req Request, printer *Printer) error {
	savedClient := youtube.DefaultClient
	defer func() {
		youtube.DefaultClient = savedClient
	}()

	youtube.DefaultClient = youtube.WebClient
	playlistClient := newClient(req)
	playlist, err := playlistClient.GetPlaylistContext(ctx, url)
	if err != nil {
		return wrapFetchError(err, "fetching playlist")
	}
	if playlist.Title == "" {
		playlist.Title = "Playlist"
	}
	if len(playlist.Videos) == 0 {
		return wrapCategory(CategoryUnsupported, errors.New("playlist has no videos"))
	}

	entries := limitEntries(playlist.Videos, req.PlaylistLimit)
	if len(entries) < len(playlist.Videos) {
		printer.Log(LogInfo, fmt.Sprintf("playlist: %s (%d of %d videos)", playlist.Title, len(entries), len(playlist.Videos)))
	} else {
		printer.Log(LogInfo, fmt.Sprintf("playlist: %s (%d videos)", playlist.Title, len(entries)))
	}

	youtube.DefaultClient = youtube.AndroidClient
	videoClient := newClient(req)
	successes := 0
	failures := 0
	skipped := 0
	var totalBytes int64

	for i, entry := range entries {
		prefix := printer.Prefix(i+1, len(entries), entryTitle(entry))
		if entry == nil || entry.ID == "" {
			skipped++
			printer.ItemSkipped(prefix, "missing playlist entry")
			continue
		}

		video, err := videoClient.VideoFromPlaylistEntryContext(ctx, entry)
		if err != nil {
			failures++
			printer.ItemResult(prefix, downloadResult{}, wrapFetchError(err, "fetching video metadata"))
			continue
		}

		result, err := downloadItem(ctx, videoClient, video, req, outputContext{
			Playlist:    playlist,
			Index:       i + 1,
			Total:       len(entries),
			EntryTitle:  entry.Title,
			EntryAuthor: entry.Author,
		}, printer, prefix)
		printer.ItemResult(prefix, result, err)
		if err != nil {
			failures++
			if ctx.Err() != nil {
				break
			}
			continue
		}

		successes++
		totalBytes += result.bytes
	}

	printer.Summary(len(entries), successes, failures, skipped, totalBytes)
	if successes == 0 {
		return markReported(errors.New("no playlist entries downloaded successfully"))
	}
	return nil
}
