package downloader

import (
	"errors"
	"fmt"

	"github.com/kkdai/youtube/v2"
)

func bitrateForFormat(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	if f.AverageBitrate > 0 {
		return f.AverageBitrate
	}
	return 0
}

func isAudioOnlyFormat(f *youtube.Format) bool {
	return f.AudioChannels > 0 && f.Width == 0 && f.Height == 0
}

func isVideoOnlyFormat(f *youtube.Format) bool {
	return f.AudioChannels == 0 && f.Width > 0 && f.Height > 0
}

func isProgressiveFormat(f *youtube.Format) bool {
	return f.AudioChannels > 0 && f.Width > 0 && f.Height > 0
}

// selectAudioFormat picks the best audio-only stream by bitrate. The
// quality cap never applies to audio.
func selectAudioFormat(video *youtube.Video) (*youtube.Format, error) {
	var best *youtube.Format
	for i := range video.Formats {
		f := &video.Formats[i]
		if !isAudioOnlyFormat(f) {
			continue
		}
		if best == nil || bitrateForFormat(f) > bitrateForFormat(best) {
			best = f
		}
	}
	if best == nil {
		return nil, wrapCategory(CategoryUnsupported, errors.New("no audio-only formats available"))
	}
	return best, nil
}

// selectVideoFormat picks the best stream at or below the resolution cap
// from the given candidates. A cap above everything on offer degrades to
// "best available"; a cap below everything picks the closest stream above
// it rather than failing. Stream negotiation beyond that is the extraction
// library's problem.
func selectVideoFormat(video *youtube.Video, cap int, match func(*youtube.Format) bool) (*youtube.Format, error) {
	candidates := make([]*youtube.Format, 0, len(video.Formats))
	for i := range video.Formats {
		f := &video.Formats[i]
		if match(f) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil, wrapCategory(CategoryUnsupported, errors.New("no video formats available"))
	}

	var best *youtube.Format
	for _, f := range candidates {
		if cap > 0 && f.Height > cap {
			continue
		}
		if best == nil || betterVideoFormat(f, best) {
			best = f
		}
	}
	if best != nil {
		return best, nil
	}

	// Everything sits above the cap: take the lowest resolution on offer.
	for _, f := range candidates {
		if best == nil || f.Height < best.Height ||
			(f.Height == best.Height && bitrateForFormat(f) > bitrateForFormat(best)) {
			best = f
		}
	}
	if best == nil {
		return nil, wrapCategory(CategoryUnsupported, fmt.Errorf("no video formats available at or near %dp", cap))
	}
	return best, nil
}

func betterVideoFormat(candidate, current *youtube.Format) bool {
	if candidate.Height != current.Height {
		return candidate.Height > current.Height
	}
	return bitrateForFormat(candidate) > bitrateForFormat(current)
}

// selectSplitFormats picks the pair of elementary streams for a merged
// video download: best capped video-only plus best audio-only. It fails
// when either half is missing so the caller can fall back to a
// progressive stream.
func selectSplitFormats(video *youtube.Video, cap int) (*youtube.Format, *youtube.Format, error) {
	videoFormat, err := selectVideoFormat(video, cap, isVideoOnlyFormat)
	if err != nil {
		return nil, nil, err
	}
	audioFormat, err := selectAudioFormat(video)
	if err != nil {
		return nil, nil, err
	}
	return videoFormat, audioFormat, nil
}

// selectProgressiveFormat picks a single muxed audio+video stream at or
// below the cap, used when ffmpeg is unavailable for merging.
func selectProgressiveFormat(video *youtube.Video, cap int) (*youtube.Format, error) {
	return selectVideoFormat(video, cap, isProgressiveFormat)
}
