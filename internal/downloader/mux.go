package downloader

import (
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ffmpegAvailable checks whether the media backend can run at all. When it
// cannot, callers fall back to progressive streams and native containers.
func ffmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// mergeStreams muxes separately downloaded video and audio streams into a
// single container with stream copy. No re-encode happens here.
func mergeStreams(videoPath, audioPath, outputPath string) error {
	return ffmpeg.Output(
		[]*ffmpeg.Stream{ffmpeg.Input(videoPath), ffmpeg.Input(audioPath)},
		outputPath,
		ffmpeg.KwArgs{"c:v": "copy", "c:a": "copy"},
	).OverWriteOutput().Silent(true).Run()
}

// extractAudio converts a downloaded stream into the requested audio
// container, picking a codec from the target extension.
func extractAudio(inputPath, outputPath string) error {
	kwargs := ffmpeg.KwArgs{"vn": ""}

	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mp3":
		kwargs["acodec"] = "libmp3lame"
		kwargs["q:a"] = "2"
	case ".m4a", ".aac":
		kwargs["acodec"] = "aac"
		kwargs["b:a"] = "192k"
	case ".opus", ".webm":
		kwargs["acodec"] = "libopus"
		kwargs["b:a"] = "160k"
	default:
		kwargs["acodec"] = "copy"
	}

	return ffmpeg.Input(inputPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		Silent(true).
		Run()
}
