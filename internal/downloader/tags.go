package downloader

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/kkdai/youtube/v2"
)

// trackMetadata is what gets embedded into finished audio files.
type trackMetadata struct {
	Title  string
	Artist string
	Album  string
	Track  int
}

func metadataForDownload(video *youtube.Video, ctxInfo outputContext) trackMetadata {
	meta := trackMetadata{
		Title:  video.Title,
		Artist: video.Author,
	}
	if ctxInfo.Playlist != nil {
		meta.Album = ctxInfo.Playlist.Title
		meta.Track = ctxInfo.Index
		if ctxInfo.EntryTitle != "" {
			meta.Title = ctxInfo.EntryTitle
		}
		if ctxInfo.EntryAuthor != "" {
			meta.Artist = ctxInfo.EntryAuthor
		}
	}
	return meta
}

// embedAudioTags embeds metadata into a finished audio file. MP3 gets ID3v2
// tags directly; containers without ID3 support go through ffmpeg. Failures
// only warn, the download itself already succeeded.
func embedAudioTags(meta trackMetadata, outputPath string, printer *Printer) {
	if outputPath == "" {
		return
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mp3":
		if err := embedID3Tags(meta, outputPath); err != nil && printer != nil {
			printer.Log(LogWarn, fmt.Sprintf("warning: metadata tag embedding failed: %v", err))
		}
	case ".m4a", ".mp4", ".webm", ".opus", ".ogg", ".mkv":
		if err := embedFFmpegTags(meta, outputPath); err != nil && printer != nil {
			printer.Log(LogWarn, fmt.Sprintf("warning: ffmpeg metadata embedding failed: %v", err))
		}
	}
}

func embedID3Tags(meta trackMetadata, outputPath string) error {
	tag, err := id3v2.Open(outputPath, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Album != "" {
		tag.SetAlbum(meta.Album)
	}
	if meta.Track != 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), strconv.Itoa(meta.Track))
	}
	return tag.Save()
}

func embedFFmpegTags(meta trackMetadata, outputPath string) error {
	if !ffmpegAvailable() {
		return fmt.Errorf("ffmpeg not found in PATH")
	}

	tempPath := outputPath + ".tagged" + filepath.Ext(outputPath)
	args := []string{"-i", outputPath, "-y", "-c", "copy"}
	if meta.Title != "" {
		args = append(args, "-metadata", "title="+meta.Title)
	}
	if meta.Artist != "" {
		args = append(args, "-metadata", "artist="+meta.Artist)
	}
	if meta.Album != "" {
		args = append(args, "-metadata", "album="+meta.Album)
	}
	if meta.Track != 0 {
		args = append(args, "-metadata", "track="+strconv.Itoa(meta.Track))
	}
	args = append(args, tempPath)

	if out, err := exec.Command("ffmpeg", args...).CombinedOutput(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("ffmpeg: %w: %s", err, firstLine(out))
	}
	return os.Rename(tempPath, outputPath)
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
