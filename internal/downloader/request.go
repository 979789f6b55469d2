package downloader

import (
	"path/filepath"
	"time"
)

const (
	// Subdirectories of the download root, split by output kind.
	AudioSubdir = "Audio"
	VideoSubdir = "Video"

	audioContainer = "m4a"
	videoContainer = "mkv"

	defaultTimeout = 3 * time.Minute
)

// Request describes one download invocation. It is built from session
// settings at dispatch time and never mutated afterwards.
type Request struct {
	// AudioOnly selects the best audio stream and an audio container;
	// otherwise the best video stream at or below Quality is merged with
	// the best audio stream.
	AudioOnly bool

	// Quality is the maximum vertical resolution for video downloads.
	// Ignored when AudioOnly is set.
	Quality int

	// Container is the target output container ("m4a" or "mkv").
	Container string

	// OutputDir is the directory downloads are written into.
	OutputDir string

	// OutputTemplate names output files; see resolveOutputPath for the
	// supported placeholders.
	OutputTemplate string

	// PlaylistLimit bounds how many playlist entries are downloaded.
	// Zero means all of them.
	PlaylistLimit int

	// Timeout applies per HTTP request, not to the whole download.
	Timeout time.Duration

	Quiet bool
}

// BuildRequest maps session settings to a download request. Pure: no I/O,
// no network. Audio requests ignore the quality cap entirely; video
// requests carry it into format selection, where "best at or below the
// cap" is resolved against what the stream actually offers.
func BuildRequest(audioOnly bool, quality int, baseDir string, playlistLimit int) Request {
	req := Request{
		AudioOnly:      audioOnly,
		Container:      videoContainer,
		OutputDir:      filepath.Join(baseDir, VideoSubdir),
		OutputTemplate: "{title}.{ext}",
		PlaylistLimit:  playlistLimit,
		Timeout:        defaultTimeout,
	}
	if audioOnly {
		req.Container = audioContainer
		req.OutputDir = filepath.Join(baseDir, AudioSubdir)
		return req
	}
	req.Quality = quality
	return req
}
