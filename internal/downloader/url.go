package downloader

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var playlistParamRegex = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]{13,42})`)

// ValidateURL rejects input that cannot possibly name a downloadable item
// before any network traffic happens.
func ValidateURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("invalid URL: %w", err))
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("invalid URL: missing scheme or host"))
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme))
	}
	return parsed.String(), nil
}

// LooksLikePlaylist reports whether the URL denotes a playlist rather than
// a single item. This is a shape probe only; resolving the playlist is the
// extraction library's job.
func LooksLikePlaylist(raw string) bool {
	return playlistParamRegex.MatchString(raw)
}

func normalizeHostname(parsed *url.URL) string {
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// NormalizeWatchURL converts alternate single-item URL forms
// (youtu.be short links, /live/, /shorts/) to the canonical watch?v= form
// the extraction library handles most reliably.
func NormalizeWatchURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := normalizeHostname(parsed)
	if host != "youtube.com" && host != "youtu.be" {
		return raw
	}
	query := parsed.Query()
	if host == "youtu.be" {
		id := strings.TrimPrefix(parsed.Path, "/")
		if id != "" {
			query.Set("v", id)
			parsed.Path = "/watch"
			parsed.RawQuery = query.Encode()
		}
		return parsed.String()
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) >= 2 && (parts[0] == "live" || parts[0] == "shorts") {
		if query.Get("v") == "" && parts[1] != "" {
			query.Set("v", parts[1])
		}
		parsed.Path = "/watch"
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}
	return raw
}
